// Package embeddings converts free text into fixed-dimension vectors via an
// external embedding provider, with defensive handling of empty input,
// oversized input and transient provider failures.
package embeddings

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/metrics"
)

const (
	// Dimension is the fixed length of every embedding vector.
	Dimension = 768
	// MaxTextChars is the per-item character budget sent to the provider.
	MaxTextChars = 8000

	maxAttempts     = 3
	initialInterval = 2 * time.Second
	maxInterval     = 10 * time.Second
)

// Gateway wraps a Provider. Empty input never reaches the provider: the
// all-zero vector of length Dimension is the defined result for empty or
// whitespace-only text, and the matcher treats it as "no signal".
type Gateway struct {
	provider Provider
	logger   *zap.Logger
	metrics  *metrics.Registry

	// retry intervals, overridable in tests
	backoffInitial time.Duration
	backoffMax     time.Duration
}

// NewGateway creates a Gateway around the given provider.
func NewGateway(provider Provider, logger *zap.Logger, reg *metrics.Registry) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		provider:       provider,
		logger:         logger,
		metrics:        reg,
		backoffInitial: initialInterval,
		backoffMax:     maxInterval,
	}
}

// ZeroVector returns the all-zero sentinel vector.
func ZeroVector() []float32 {
	return make([]float32, Dimension)
}

// EmbedOne generates the embedding for a single text. Surrounding whitespace
// is trimmed; empty text short-circuits to the zero vector without a provider
// call. Text longer than MaxTextChars is truncated before the call.
func (g *Gateway) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := g.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedMany generates one embedding per input text, preserving order and
// length. Non-empty items are submitted as a single batched provider call;
// if every item is empty the provider is never called.
func (g *Gateway) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	// Partition into empty items (zero vector, no call) and the batch that
	// actually goes to the provider.
	batch := make([]string, 0, len(texts))
	positions := make([]int, 0, len(texts))
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			g.logger.Debug("empty text, using zero vector", zap.Int("index", i))
			vectors[i] = ZeroVector()
			continue
		}
		// The limit counts runes, not bytes; a byte cut could split a
		// multi-byte rune and send invalid UTF-8 to the provider.
		if runeCount := utf8.RuneCountInString(trimmed); runeCount > MaxTextChars {
			g.logger.Warn("text truncated for embedding",
				zap.Int("index", i),
				zap.Int("original_chars", runeCount),
				zap.Int("limit", MaxTextChars))
			trimmed = string([]rune(trimmed)[:MaxTextChars])
		}
		batch = append(batch, trimmed)
		positions = append(positions, i)
	}

	if len(batch) == 0 {
		return vectors, nil
	}

	embedded, err := g.callProvider(ctx, batch)
	if err != nil {
		return nil, err
	}

	for i, vec := range embedded {
		vectors[positions[i]] = vec
	}
	return vectors, nil
}

// EmbedProfile embeds the three profile text fields in their fixed order and
// returns them by name.
func (g *Gateway) EmbedProfile(ctx context.Context, skills, experience, goals string) (ProfileEmbeddingSet, error) {
	vectors, err := g.EmbedMany(ctx, []string{skills, experience, goals})
	if err != nil {
		return ProfileEmbeddingSet{}, err
	}
	return ProfileEmbeddingSet{
		Skills:     vectors[0],
		Experience: vectors[1],
		Goals:      vectors[2],
	}, nil
}

// EmbedJob embeds the two job posting text fields in their fixed order and
// returns them by name.
func (g *Gateway) EmbedJob(ctx context.Context, description, requirements string) (JobEmbeddingSet, error) {
	vectors, err := g.EmbedMany(ctx, []string{description, requirements})
	if err != nil {
		return JobEmbeddingSet{}, err
	}
	return JobEmbeddingSet{
		Description:  vectors[0],
		Requirements: vectors[1],
	}, nil
}

// callProvider performs the batched provider call with bounded exponential
// backoff. Only transient failures (rate limiting, 5xx, timeouts) are
// retried; the jittered delay avoids synchronized retry storms when many
// requests fail at once.
func (g *Gateway) callProvider(ctx context.Context, batch []string) ([][]float32, error) {
	var (
		vectors   [][]float32
		attempts  int
		transient bool
	)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.backoffInitial
	policy.MaxInterval = g.backoffMax

	start := time.Now()
	operation := func() error {
		attempts++
		result, err := g.provider.EmbedBatch(ctx, batch)
		if err != nil {
			transient = isTransient(err)
			if !transient {
				return backoff.Permanent(err)
			}
			g.logger.Warn("transient embedding provider failure",
				zap.Int("attempt", attempts),
				zap.Error(err))
			return err
		}
		vectors = result
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, maxAttempts-1), ctx))
	elapsed := time.Since(start)

	if err != nil {
		outcome := "permanent_error"
		if transient {
			outcome = "transient_error"
		}
		g.metrics.ObserveProviderCall(outcome, elapsed)
		return nil, &ProviderError{Transient: transient, Attempts: attempts, Cause: err}
	}

	g.metrics.ObserveProviderCall("ok", elapsed)
	g.logger.Debug("embedded batch",
		zap.Int("batch_size", len(batch)),
		zap.Duration("elapsed", elapsed))
	return vectors, nil
}
