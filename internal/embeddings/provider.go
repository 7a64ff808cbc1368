package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-004"

// Provider is an abstraction over external text-embedding APIs. Each returned
// vector has the provider's fixed dimension and corresponds positionally to
// the input text.
type Provider interface {
	// EmbedBatch generates one embedding per input text in a single call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Close releases any resources held by the provider.
	Close() error
}

// GeminiProvider implements Provider using the Gemini embedding API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a provider for the given embedding model.
// An empty model selects DefaultModel.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// EmbedBatch submits all texts as one batched request.
func (p *GeminiProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	em := p.client.EmbeddingModel(p.model)

	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("provider returned empty embedding at index %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// isTransient reports whether a provider failure is worth retrying.
// Rate limiting, server-side errors and timeouts are transient; any other
// HTTP status (bad credentials, malformed request) is permanent.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
