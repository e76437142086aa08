package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/datagen"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

// Engine indexes documents and schemas, retrieves relevant context,
// and calls the configured LLM to synthesize rows augmented with that
// context.
type Engine struct {
	cfg      Config
	chunks   []*DocumentChunk
	schemaKB map[string][]string
	chat     ChatProvider
	embed    Embedder
}

// NewEngine builds an engine from cfg, constructing its chat and
// embedding clients.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		schemaKB: make(map[string][]string),
		chat:     NewChatProvider(cfg),
		embed:    NewEmbedder(cfg),
	}
}

// AddDocument indexes a raw document chunk for later retrieval.
func (e *Engine) AddDocument(content string, metadata map[string]interface{}) string {
	id := fmt.Sprintf("chunk_%d", len(e.chunks))
	e.chunks = append(e.chunks, &DocumentChunk{ID: id, Content: content, Metadata: metadata})
	return id
}

// IndexChunkEmbedding attaches a precomputed embedding to a chunk,
// enabling semantic search for it.
func (e *Engine) IndexChunkEmbedding(ctx context.Context, id string) error {
	for _, c := range e.chunks {
		if c.ID == id {
			vec, err := e.embed.Embed(ctx, c.Content)
			if err != nil {
				return err
			}
			c.Embedding = vec
			return nil
		}
	}
	return errRAG("index embedding", fmt.Errorf("chunk %q not found", id))
}

// IndexAllChunkEmbeddings embeds every chunk that doesn't yet have an
// embedding, fanning the calls out across a bounded number of workers
// rather than one request at a time.
func (e *Engine) IndexAllChunkEmbeddings(ctx context.Context) error {
	limit := e.cfg.EmbedConcurrency
	if limit <= 0 {
		limit = 4
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for _, c := range e.chunks {
		if len(c.Embedding) > 0 {
			continue
		}
		group.Go(func() error {
			vec, err := e.embed.Embed(groupCtx, c.Content)
			if err != nil {
				return errRAG("index embedding", fmt.Errorf("chunk %q: %w", c.ID, err))
			}
			c.Embedding = vec
			return nil
		})
	}
	return group.Wait()
}

// AddSchema summarizes a schema (name, description, fields) into the
// knowledge base so build prompts can cite it.
func (e *Engine) AddSchema(schema *datagen.SchemaDefinition) {
	info := []string{fmt.Sprintf("Schema: %s", schema.Name)}
	if schema.Description != "" {
		info = append(info, fmt.Sprintf("Description: %s", schema.Description))
	}
	for _, field := range schema.Fields {
		info = append(info, fmt.Sprintf("Field '%s': type=%s, required=%t", field.Name, field.FieldType, field.Required))
	}
	e.schemaKB[schema.Name] = info
}

// ChunkCount reports how many documents are indexed.
func (e *Engine) ChunkCount() int { return len(e.chunks) }

// GenerateRows produces `rows` RAG-augmented data rows for schema. If
// more than 25% of rows fail, the call aborts with an error; otherwise
// individual failures are replaced with a type-default fallback row
// and reported in the returned warnings.
func (e *Engine) GenerateRows(ctx context.Context, schema *datagen.SchemaDefinition, rows int) ([]map[string]interface{}, []string, error) {
	if e.cfg.APIKey == "" && e.cfg.Provider != ProviderOllama {
		return nil, nil, errRAG("config", fmt.Errorf("RAG is enabled but no API key is configured"))
	}

	results := make([]map[string]interface{}, 0, rows)
	var warnings []string
	failed := 0

	for i := 0; i < rows; i++ {
		data, err := e.generateSingleRow(ctx, schema, i)
		if err != nil {
			failed++
			warnings = append(warnings, fmt.Sprintf("row %d: %v", i, err))
			logging.Get(logging.CategoryRAG).Warn("RAG generation failed for row %d: %v", i, err)

			if failed > rows/4 {
				return nil, warnings, errRAG("generate rows", fmt.Errorf(
					"too many RAG generation failures (%d out of %d rows failed)", failed, rows))
			}
			results = append(results, fallbackRow(schema))
			continue
		}
		results = append(results, data)
	}

	if failed > 0 {
		logging.Get(logging.CategoryRAG).Warn("RAG generation completed with %d failed rows out of %d", failed, rows)
	}
	return results, warnings, nil
}

func fallbackRow(schema *datagen.SchemaDefinition) map[string]interface{} {
	obj := make(map[string]interface{})
	for _, field := range schema.Fields {
		switch field.FieldType {
		case "integer", "number":
			obj[field.Name] = 42
		case "boolean":
			obj[field.Name] = true
		default:
			obj[field.Name] = "sample_data"
		}
	}
	return obj
}

func (e *Engine) generateSingleRow(ctx context.Context, schema *datagen.SchemaDefinition, rowIndex int) (map[string]interface{}, error) {
	prompt, err := e.buildGenerationPrompt(ctx, schema, rowIndex)
	if err != nil {
		return nil, err
	}
	raw, err := e.callLLMWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseLLMResponse(raw)
}

func (e *Engine) buildGenerationPrompt(ctx context.Context, schema *datagen.SchemaDefinition, rowIndex int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a single row of data for the '%s' schema.\n\n", schema.Name)

	if info, ok := e.schemaKB[schema.Name]; ok {
		b.WriteString("Schema Information:\n")
		for _, line := range info {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	chunks, err := e.retrieveRelevantChunks(ctx, schema.Name, e.effectiveMaxChunks())
	if err != nil {
		return "", err
	}
	if len(chunks) > 0 {
		b.WriteString("Relevant Context:\n")
		for _, c := range chunks {
			fmt.Fprintf(&b, "- %s\n", c.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("Instructions:\n")
	b.WriteString("- Generate realistic data that matches the schema\n")
	b.WriteString("- Ensure all required fields are present\n")
	b.WriteString("- Use appropriate data types and formats\n")
	b.WriteString("- Make relationships consistent if referenced\n")
	b.WriteString("- Output only valid JSON for a single object\n\n")
	b.WriteString("Generate the data:")

	return b.String(), nil
}

func (e *Engine) effectiveMaxChunks() int {
	if e.cfg.MaxChunks > 0 {
		return e.cfg.MaxChunks
	}
	return 3
}

func (e *Engine) retrieveRelevantChunks(ctx context.Context, query string, limit int) ([]*DocumentChunk, error) {
	if e.cfg.SemanticSearchEnabled {
		results, err := e.semanticSearch(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		out := make([]*DocumentChunk, len(results))
		for i, r := range results {
			out[i] = r.Chunk
		}
		return out, nil
	}
	return e.KeywordSearch(query, limit), nil
}

// KeywordSearch performs case-insensitive substring matching over
// chunk content and string metadata values.
func (e *Engine) KeywordSearch(query string, limit int) []*DocumentChunk {
	var out []*DocumentChunk
	for _, c := range e.chunks {
		if len(out) >= limit {
			break
		}
		if containsFold(c.Content, query) || metadataContainsFold(c.Metadata, query) {
			out = append(out, c)
		}
	}
	return out
}

func metadataContainsFold(metadata map[string]interface{}, query string) bool {
	for _, v := range metadata {
		if s, ok := v.(string); ok && containsFold(s, query) {
			return true
		}
	}
	return false
}

func (e *Engine) semanticSearch(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	queryEmbedding, err := e.embed.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, c := range e.chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		score := cosineSimilarity(queryEmbedding, c.Embedding)
		if score >= e.cfg.SimilarityThreshold {
			results = append(results, SearchResult{Chunk: c, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// callLLMWithRetry retries on failure with a 500ms*(attempt) backoff,
// up to MaxRetries additional attempts after the first. Each wait is
// paced through a rate.Limiter sized to that attempt's delay rather
// than a bare time.Sleep, so the wait still honors ctx cancellation
// via Wait.
func (e *Engine) callLLMWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		result, err := e.chat.Chat(ctx, prompt)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt < e.cfg.MaxRetries {
			delay := time.Duration(500*(attempt+1)) * time.Millisecond
			logging.Get(logging.CategoryRAG).Warn("LLM call failed (attempt %d), retrying in %v: %v", attempt+1, delay, err)

			limiter := rate.NewLimiter(rate.Every(delay), 1)
			limiter.Reserve() // drain the initial burst token so Wait actually paces by delay
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
	}
	return "", errRAG("retry exhausted", lastErr)
}

// parseLLMResponse parses response as JSON; on failure, it locates
// the first balanced {...} span and retries.
func parseLLMResponse(response string) (map[string]interface{}, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(response), &obj); err == nil {
		return obj, nil
	}

	span, ok := firstBalancedObjectSpan(response)
	if !ok {
		return nil, errRAG("parse response", fmt.Errorf("no JSON object found in response"))
	}
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, errRAG("parse response", fmt.Errorf("failed to parse extracted JSON: %w", err))
	}
	return obj, nil
}

// firstBalancedObjectSpan finds the first brace-balanced {...}
// substring, tolerating braces nested inside string literals.
func firstBalancedObjectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
