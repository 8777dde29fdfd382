package productindex

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// OpenAIEmbedder calls a remote embeddings endpoint through the OpenAI SDK
// client. It is the production alternative behind the same Embedder
// interface the TFIDFEmbedder satisfies; swapping between them requires a
// full re-build of the Product Index, as the embedding model note in the
// design notes requires.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

var _ domain.Embedder = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder builds an embedder against baseURL/apiKey using model,
// which is expected to report a fixed output dimension (e.g.
// "text-embedding-3-small" at 1536).
func NewOpenAIEmbedder(baseURL, apiKey, model string, dimension int) *OpenAIEmbedder {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIEmbedder{client: &client, model: model, dim: dimension}
}

// Prepare is a no-op for a remote embedder; the vocabulary lives on the
// server side and is not a function of the local corpus.
func (e *OpenAIEmbedder) Prepare(ctx context.Context, corpus []string) error { return nil }

func (e *OpenAIEmbedder) Dimension() int { return e.dim }

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.model,
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", domain.ErrEmbedding)
	}
	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = v
	}
	normalize(vec)
	return vec, nil
}
