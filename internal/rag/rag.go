// Package rag implements retrieval-augmented generation for the data
// generator: document indexing, keyword/semantic retrieval, and
// multi-provider LLM calls with retry and JSON-repair parsing.
package rag

import (
	"strings"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/config"
)

// Provider identifies which LLM backend serves chat completions.
type Provider string

const (
	ProviderOpenAI           Provider = "openai"
	ProviderAnthropic        Provider = "anthropic"
	ProviderOpenAICompatible Provider = "openai_compatible"
	ProviderOllama           Provider = "ollama"
)

// EmbeddingProvider identifies which backend serves embeddings.
type EmbeddingProvider string

const (
	EmbeddingProviderOpenAI           EmbeddingProvider = "openai"
	EmbeddingProviderOpenAICompatible EmbeddingProvider = "openai_compatible"
	EmbeddingProviderGenAI            EmbeddingProvider = "genai"
)

// DocumentChunk is one retrievable unit in the knowledge base.
type DocumentChunk struct {
	ID        string
	Content   string
	Metadata  map[string]interface{}
	Embedding []float32
}

// SearchResult pairs a chunk with its similarity score.
type SearchResult struct {
	Chunk *DocumentChunk
	Score float64
}

// FromConfig adapts the workspace config's RAG section into the
// engine's own Config. Only Provider and EmbeddingProvider fall back to
// a default (OpenAI) when empty; every other field is copied as is,
// zero values included, and EmbedConcurrency is left at zero.
func FromConfig(c config.RAGConfig) Config {
	cfg := Config{
		Provider:              Provider(c.Provider),
		APIEndpoint:           c.APIEndpoint,
		APIKey:                c.APIKey,
		Model:                 c.Model,
		MaxTokens:             c.MaxTokens,
		Temperature:           c.Temperature,
		ContextWindow:         c.ContextWindow,
		SemanticSearchEnabled: c.SemanticSearchEnabled,
		EmbeddingProvider:     EmbeddingProvider(c.EmbeddingProvider),
		EmbeddingModel:        c.EmbeddingModel,
		EmbeddingEndpoint:     c.EmbeddingEndpoint,
		SimilarityThreshold:   c.SimilarityThreshold,
		MaxChunks:             c.MaxChunks,
		RequestTimeoutSeconds: c.RequestTimeoutSeconds,
		MaxRetries:            c.MaxRetries,
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.EmbeddingProvider == "" {
		cfg.EmbeddingProvider = EmbeddingProviderOpenAI
	}
	return cfg
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
