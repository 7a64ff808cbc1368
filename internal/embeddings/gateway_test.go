package embeddings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type mockProvider struct {
	calls    int
	batches  [][]string
	vectors  [][]float32
	failures []error // consumed one per call before vectors are returned
}

func (m *mockProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	m.batches = append(m.batches, append([]string(nil), texts...))
	if len(m.failures) > 0 {
		err := m.failures[0]
		m.failures = m.failures[1:]
		return nil, err
	}
	if m.vectors != nil {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = m.vectors[i%len(m.vectors)]
		}
		return out, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, Dimension)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

func (m *mockProvider) Close() error { return nil }

func newTestGateway(p Provider) *Gateway {
	g := NewGateway(p, nil, nil)
	g.backoffInitial = time.Millisecond
	g.backoffMax = 5 * time.Millisecond
	return g
}

func TestEmbedOne_EmptyTextSkipsProvider(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	for _, text := range []string{"", "   ", "\n\t  "} {
		vec, err := gateway.EmbedOne(context.Background(), text)

		require.NoError(t, err)
		assert.Equal(t, ZeroVector(), vec)
	}
	assert.Zero(t, provider.calls, "provider must not be called for empty text")
}

func TestEmbedOne_ReturnsProviderVector(t *testing.T) {
	want := make([]float32, Dimension)
	want[0] = 0.25
	want[1] = -0.5 // no normalization in the gateway
	provider := &mockProvider{vectors: [][]float32{want}}
	gateway := newTestGateway(provider)

	vec, err := gateway.EmbedOne(context.Background(), "senior gopher")

	require.NoError(t, err)
	assert.Equal(t, want, vec)
	assert.Equal(t, 1, provider.calls)
}

func TestEmbedOne_TrimsAndTruncates(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	long := "  " + strings.Repeat("x", MaxTextChars+500) + "  "
	_, err := gateway.EmbedOne(context.Background(), long)

	require.NoError(t, err)
	require.Len(t, provider.batches, 1)
	sent := provider.batches[0][0]
	assert.Len(t, sent, MaxTextChars)
	assert.False(t, strings.HasPrefix(sent, " "))
}

func TestEmbedOne_MultiByteTextWithinLimitUntruncated(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	// Exactly at the limit in runes, three times over it in bytes.
	text := strings.Repeat("界", MaxTextChars)
	_, err := gateway.EmbedOne(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, provider.batches, 1)
	assert.Equal(t, text, provider.batches[0][0])
}

func TestEmbedOne_TruncatesByRunes(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	text := strings.Repeat("я", MaxTextChars+100)
	_, err := gateway.EmbedOne(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, provider.batches, 1)
	sent := provider.batches[0][0]
	assert.Equal(t, MaxTextChars, utf8.RuneCountInString(sent))
	assert.True(t, utf8.ValidString(sent), "truncation must not split a rune")
}

func TestEmbedMany_MixedEmptyAndNonEmpty(t *testing.T) {
	want := make([]float32, Dimension)
	want[3] = 0.9
	provider := &mockProvider{vectors: [][]float32{want}}
	gateway := newTestGateway(provider)

	vectors, err := gateway.EmbedMany(context.Background(), []string{"", "hello", ""})

	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, ZeroVector(), vectors[0])
	assert.Equal(t, want, vectors[1])
	assert.Equal(t, ZeroVector(), vectors[2])

	require.Equal(t, 1, provider.calls)
	assert.Equal(t, []string{"hello"}, provider.batches[0])
}

func TestEmbedMany_AllEmptyShortCircuits(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	vectors, err := gateway.EmbedMany(context.Background(), []string{"", "  ", "\t"})

	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, vec := range vectors {
		assert.Equal(t, ZeroVector(), vec)
	}
	assert.Zero(t, provider.calls)
}

func TestEmbedMany_PreservesOrder(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	texts := []string{"first", "", "third", "fourth"}
	vectors, err := gateway.EmbedMany(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	assert.Equal(t, []string{"first", "third", "fourth"}, provider.batches[0])
	assert.Equal(t, ZeroVector(), vectors[1])
	assert.NotEqual(t, ZeroVector(), vectors[0])
}

func TestEmbedProfile_FieldOrdering(t *testing.T) {
	skillsVec := []float32{1}
	experienceVec := []float32{2}
	goalsVec := []float32{3}
	provider := &orderedProvider{queue: [][]float32{skillsVec, experienceVec, goalsVec}}
	gateway := newTestGateway(provider)

	set, err := gateway.EmbedProfile(context.Background(), "Go, SQL", "8 years backend", "ship search infra")

	require.NoError(t, err)
	assert.Equal(t, skillsVec, set.Skills)
	assert.Equal(t, experienceVec, set.Experience)
	assert.Equal(t, goalsVec, set.Goals)
}

func TestEmbedJob_FieldOrdering(t *testing.T) {
	descVec := []float32{1}
	reqVec := []float32{2}
	provider := &orderedProvider{queue: [][]float32{descVec, reqVec}}
	gateway := newTestGateway(provider)

	set, err := gateway.EmbedJob(context.Background(), "build the matcher", "5 years Go")

	require.NoError(t, err)
	assert.Equal(t, descVec, set.Description)
	assert.Equal(t, reqVec, set.Requirements)
}

func TestEmbedProfile_EmptyFieldGetsZeroVector(t *testing.T) {
	provider := &mockProvider{}
	gateway := newTestGateway(provider)

	set, err := gateway.EmbedProfile(context.Background(), "Go", "", "lead a team")

	require.NoError(t, err)
	assert.Equal(t, ZeroVector(), set.Experience)
	assert.NotEqual(t, ZeroVector(), set.Skills)
	assert.Equal(t, []string{"Go", "lead a team"}, provider.batches[0])
}

func TestCallProvider_RetriesTransientFailures(t *testing.T) {
	provider := &mockProvider{failures: []error{
		&googleapi.Error{Code: 503},
		&googleapi.Error{Code: 429},
	}}
	gateway := newTestGateway(provider)

	vec, err := gateway.EmbedOne(context.Background(), "retry me")

	require.NoError(t, err)
	assert.NotNil(t, vec)
	assert.Equal(t, 3, provider.calls)
}

func TestCallProvider_ExhaustedRetries(t *testing.T) {
	provider := &mockProvider{failures: []error{
		&googleapi.Error{Code: 500},
		&googleapi.Error{Code: 500},
		&googleapi.Error{Code: 500},
	}}
	gateway := newTestGateway(provider)

	_, err := gateway.EmbedOne(context.Background(), "always failing")

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Transient)
	assert.Equal(t, 3, provErr.Attempts)
	assert.Equal(t, 3, provider.calls)
}

func TestCallProvider_PermanentFailureNotRetried(t *testing.T) {
	provider := &mockProvider{failures: []error{
		&googleapi.Error{Code: 401},
	}}
	gateway := newTestGateway(provider)

	_, err := gateway.EmbedOne(context.Background(), "bad credentials")

	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, provErr.Transient)
	assert.Equal(t, 1, provider.calls)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&googleapi.Error{Code: 429}))
	assert.True(t, isTransient(&googleapi.Error{Code: 500}))
	assert.True(t, isTransient(&googleapi.Error{Code: 503}))
	assert.True(t, isTransient(context.DeadlineExceeded))
	assert.False(t, isTransient(&googleapi.Error{Code: 400}))
	assert.False(t, isTransient(&googleapi.Error{Code: 401}))
	assert.False(t, isTransient(&googleapi.Error{Code: 404}))
	assert.False(t, isTransient(errors.New("something else")))
}

// orderedProvider returns queued vectors in submission order, regardless of
// batch boundaries.
type orderedProvider struct {
	queue [][]float32
}

func (p *orderedProvider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		if len(p.queue) == 0 {
			return nil, errors.New("queue exhausted")
		}
		out[i] = p.queue[0]
		p.queue = p.queue[1:]
	}
	return out, nil
}

func (p *orderedProvider) Close() error { return nil }
