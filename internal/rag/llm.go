package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/errs"
)

// ChatProvider sends a single prompt to an LLM and returns the raw
// text response (before JSON extraction).
type ChatProvider interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

func errRAG(op string, cause error) error {
	return errs.Wrap("rag", errs.KindExternalAPI, "rag: "+op, cause)
}

// httpProvider backs OpenAI, Anthropic, OpenAI-compatible, and Ollama
// — each differs only in request/response shape, not transport.
type httpProvider struct {
	cfg    Config
	client *http.Client
}

func newHTTPProvider(cfg Config) *httpProvider {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpProvider{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

// NewChatProvider builds the ChatProvider implied by cfg.Provider.
func NewChatProvider(cfg Config) ChatProvider {
	return newHTTPProvider(cfg)
}

func (p *httpProvider) Chat(ctx context.Context, prompt string) (string, error) {
	switch p.cfg.Provider {
	case ProviderAnthropic:
		return p.chatAnthropic(ctx, prompt)
	case ProviderOpenAICompatible:
		return p.chatOpenAICompatible(ctx, prompt)
	case ProviderOllama:
		return p.chatOllama(ctx, prompt)
	default:
		return p.chatOpenAI(ctx, prompt)
	}
}

func (p *httpProvider) postJSON(ctx context.Context, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errRAG("marshal request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errRAG("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errRAG("request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errRAG("read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errRAG("non-2xx response", fmt.Errorf("status %d: %s", resp.StatusCode, string(data)))
	}
	return data, nil
}

func (p *httpProvider) chatOpenAI(ctx context.Context, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", errRAG("config", fmt.Errorf("OpenAI API key not configured"))
	}
	body := map[string]interface{}{
		"model": p.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  p.cfg.MaxTokens,
		"temperature": p.cfg.Temperature,
	}
	data, err := p.postJSON(ctx, p.cfg.APIEndpoint, map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	}, body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Choices) == 0 {
		return "", errRAG("parse response", fmt.Errorf("invalid OpenAI response format"))
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *httpProvider) chatAnthropic(ctx context.Context, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", errRAG("config", fmt.Errorf("Anthropic API key not configured"))
	}
	body := map[string]interface{}{
		"model":      p.cfg.Model,
		"max_tokens": p.cfg.MaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	data, err := p.postJSON(ctx, p.cfg.APIEndpoint, map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": "2023-06-01",
	}, body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Content) == 0 {
		return "", errRAG("parse response", fmt.Errorf("invalid Anthropic response format"))
	}
	return parsed.Content[0].Text, nil
}

func (p *httpProvider) chatOpenAICompatible(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model": p.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  p.cfg.MaxTokens,
		"temperature": p.cfg.Temperature,
	}
	headers := map[string]string{}
	if p.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + p.cfg.APIKey
	}
	data, err := p.postJSON(ctx, p.cfg.APIEndpoint, headers, body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || len(parsed.Choices) == 0 {
		return "", errRAG("parse response", fmt.Errorf("invalid OpenAI-compatible response format"))
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *httpProvider) chatOllama(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model":  p.cfg.Model,
		"prompt": prompt,
		"stream": false,
	}
	data, err := p.postJSON(ctx, p.cfg.APIEndpoint, nil, body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil || parsed.Response == "" {
		return "", errRAG("parse response", fmt.Errorf("invalid Ollama response format"))
	}
	return parsed.Response, nil
}
