package rag

// Config controls one Engine instance: which provider answers chat
// completions and embeddings, and the retry/retrieval tuning knobs.
type Config struct {
	Provider      Provider
	APIEndpoint   string
	APIKey        string
	Model         string
	MaxTokens     int
	Temperature   float64
	ContextWindow int

	SemanticSearchEnabled bool
	EmbeddingProvider     EmbeddingProvider
	EmbeddingModel        string
	EmbeddingEndpoint     string
	SimilarityThreshold   float64
	MaxChunks             int

	RequestTimeoutSeconds int
	MaxRetries            int
	EmbedConcurrency      int
}

// DefaultConfig mirrors the original implementation's defaults.
func DefaultConfig() Config {
	return Config{
		Provider:              ProviderOpenAI,
		APIEndpoint:           "https://api.openai.com/v1/chat/completions",
		Model:                 "gpt-3.5-turbo",
		MaxTokens:             1000,
		Temperature:           0.7,
		ContextWindow:         4000,
		SemanticSearchEnabled: true,
		EmbeddingProvider:     EmbeddingProviderOpenAI,
		EmbeddingModel:        "text-embedding-ada-002",
		SimilarityThreshold:   0.7,
		MaxChunks:             5,
		RequestTimeoutSeconds: 30,
		MaxRetries:            3,
		EmbedConcurrency:      4,
	}
}
