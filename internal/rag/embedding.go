package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// Embedder produces a vector representation of text for semantic
// retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the Embedder implied by cfg.EmbeddingProvider.
// GenAI is used whenever an embedding model name suggests a Gemini
// model; otherwise requests go through the OpenAI-shaped HTTP path
// (which also serves OpenAI-compatible embedding endpoints).
func NewEmbedder(cfg Config) Embedder {
	if cfg.EmbeddingProvider == EmbeddingProviderGenAI || strings.Contains(strings.ToLower(cfg.EmbeddingModel), "gemini") {
		return &genaiEmbedder{cfg: cfg}
	}
	return &httpEmbedder{provider: newHTTPProvider(cfg), cfg: cfg}
}

// genaiEmbedder wraps google.golang.org/genai's EmbedContent call for
// Gemini embedding models.
type genaiEmbedder struct {
	cfg    Config
	client *genai.Client
}

func (e *genaiEmbedder) ensureClient(ctx context.Context) error {
	if e.client != nil {
		return nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: e.cfg.APIKey})
	if err != nil {
		return errRAG("create genai client", err)
	}
	e.client = client
	return nil
}

func (e *genaiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.ensureClient(ctx); err != nil {
		return nil, err
	}
	model := e.cfg.EmbeddingModel
	if model == "" {
		model = "gemini-embedding-001"
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	result, err := e.client.Models.EmbedContent(ctx, model, contents, nil)
	if err != nil {
		return nil, errRAG("genai embed", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, errRAG("genai embed", fmt.Errorf("no embeddings returned"))
	}
	return result.Embeddings[0].Values, nil
}

// httpEmbedder calls an OpenAI-shaped /embeddings endpoint, used for
// both the OpenAI and OpenAI-compatible embedding providers.
type httpEmbedder struct {
	provider *httpProvider
	cfg      Config
}

func (e *httpEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	endpoint := e.cfg.EmbeddingEndpoint
	if endpoint == "" {
		endpoint = e.cfg.APIEndpoint
	}
	endpoint = strings.Replace(endpoint, "chat/completions", "embeddings", 1)

	headers := map[string]string{}
	if e.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + e.cfg.APIKey
	}
	body := map[string]interface{}{
		"model": e.cfg.EmbeddingModel,
		"input": text,
	}

	logging.Get(logging.CategoryRAG).Debug("requesting embedding from %s", endpoint)
	data, err := e.provider.postJSON(ctx, endpoint, headers, body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Data) == 0 {
		return nil, errRAG("parse embedding response", fmt.Errorf("invalid embedding response format"))
	}
	return parsed.Data[0].Embedding, nil
}
