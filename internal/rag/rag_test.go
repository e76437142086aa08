package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/datagen"
)

func TestKeywordSearchMatchesContentAndMetadata(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.AddDocument("A guide to finance schemas.", map[string]interface{}{"topic": "finance"})
	e.AddDocument("Shipping and delivery notes.", map[string]interface{}{"topic": "ecommerce"})

	results := e.KeywordSearch("finance", 5)
	require.Len(t, results, 1)
	require.Contains(t, results[0].Content, "finance")

	results = e.KeywordSearch("ecommerce", 5)
	require.Len(t, results, 1)
}

func TestCosineSimilarityIdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 2, 3}
	require.InDelta(t, 1.0, cosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarityOrthogonalIsZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	require.InDelta(t, 0.0, cosineSimilarity(a, b), 1e-9)
}

func TestParseLLMResponseDirectJSON(t *testing.T) {
	obj, err := parseLLMResponse(`{"name": "Ada"}`)
	require.NoError(t, err)
	require.Equal(t, "Ada", obj["name"])
}

func TestParseLLMResponseExtractsBalancedSpan(t *testing.T) {
	raw := "Sure, here is the data:\n```json\n{\"name\": \"Ada\", \"nested\": {\"a\": 1}}\n```\nHope that helps!"
	obj, err := parseLLMResponse(raw)
	require.NoError(t, err)
	require.Equal(t, "Ada", obj["name"])
}

func TestParseLLMResponseNoJSONErrors(t *testing.T) {
	_, err := parseLLMResponse("no json here at all")
	require.Error(t, err)
}

func TestFallbackRowUsesTypeDefaults(t *testing.T) {
	schema := &datagen.SchemaDefinition{
		Fields: []datagen.FieldDefinition{
			{Name: "age", FieldType: "integer"},
			{Name: "active", FieldType: "boolean"},
			{Name: "label", FieldType: "string"},
		},
	}
	row := fallbackRow(schema)
	require.Equal(t, 42, row["age"])
	require.Equal(t, true, row["active"])
	require.Equal(t, "sample_data", row["label"])
}

func TestGenerateRowsAbortsAboveQuarterFailureRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama     // needs no API key, so every row reaches the chat provider
	cfg.SemanticSearchEnabled = false // keyword retrieval only, no embedding calls
	cfg.MaxRetries = 0                // no backoff between failed attempts
	e := NewEngine(cfg)
	e.chat = failingChatProvider{}

	_, _, err := e.GenerateRows(context.Background(), &datagen.SchemaDefinition{Name: "thing"}, 8)
	require.Error(t, err)
	require.Contains(t, err.Error(), "too many RAG generation failures")
}

type failingChatProvider struct{}

func (failingChatProvider) Chat(ctx context.Context, prompt string) (string, error) {
	return "", errRAG("test", context.DeadlineExceeded)
}

func TestIndexAllChunkEmbeddingsFillsEveryUnembeddedChunk(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.embed = stubEmbedder{}
	e.AddDocument("first document", nil)
	e.AddDocument("second document", nil)

	err := e.IndexAllChunkEmbeddings(context.Background())
	require.NoError(t, err)

	for _, c := range e.chunks {
		require.Len(t, c.Embedding, 3)
	}
}

func TestIndexAllChunkEmbeddingsPropagatesEmbedFailure(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.embed = failingEmbedder{}
	e.AddDocument("first document", nil)

	err := e.IndexAllChunkEmbeddings(context.Background())
	require.Error(t, err)
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 2, 3}, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errRAG("test", context.DeadlineExceeded)
}
