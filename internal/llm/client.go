// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slideforge/internal/common/errors"
	"slideforge/internal/common/logger"
)

// Generator is the generation capability the pipeline depends on. GenerateJSON
// demands JSON-only output and returns the extracted raw value; decoding into
// a typed struct is the caller's job, after schema validation.
type Generator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64) (string, error)
	GenerateJSON(ctx context.Context, prompt string, temperature float64) (json.RawMessage, error)
}

const jsonOnlyInstruction = "\n\nIMPORTANT: Respond ONLY with valid JSON. Do not include any explanatory text before or after the JSON."

// Config selects and tunes the generation backend.
type Config struct {
	OllamaURL      string
	Model          string
	UseExternalAPI bool
	ExternalAPIURL string
	ExternalAPIKey string
	Timeout        time.Duration
}

// Client talks to either a local ollama server or an OpenAI-compatible chat
// completions endpoint, behind the same Generator contract.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg *Config, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		logger: log.With(map[string]interface{}{
			"component": "llm-client",
			"model":     cfg.Model,
		}),
	}
}

// GenerateText sends the prompt to the configured backend and returns the raw
// completion text.
func (c *Client) GenerateText(ctx context.Context, prompt string, temperature float64) (string, error) {
	if c.config.UseExternalAPI && c.config.ExternalAPIURL != "" {
		return c.generateExternal(ctx, prompt, temperature)
	}
	return c.generateOllama(ctx, prompt, temperature)
}

// GenerateJSON appends a JSON-only instruction, extracts the first top-level
// JSON object or array from the response (tolerating surrounding prose), and
// returns it unparsed.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, temperature float64) (json.RawMessage, error) {
	text, err := c.GenerateText(ctx, prompt+jsonOnlyInstruction, temperature)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		c.logger.Warn("no JSON found in generation response", map[string]interface{}{
			"responseLength": len(text),
		})
		return nil, errors.NewMalformedJSON(text, fmt.Errorf("no JSON object or array in response"))
	}
	return raw, nil
}

func (c *Client) generateOllama(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"model":       c.config.Model,
		"prompt":      prompt,
		"temperature": temperature,
		"stream":      false,
	})

	respBody, err := c.post(ctx, c.config.OllamaURL+"/api/generate", body, "")
	if err != nil {
		return "", err
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.NewMalformedJSON(string(respBody), err)
	}
	return parsed.Response, nil
}

func (c *Client) generateExternal(ctx context.Context, prompt string, temperature float64) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"model": c.config.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": temperature,
	})

	respBody, err := c.post(ctx, c.config.ExternalAPIURL+"/chat/completions", body, c.config.ExternalAPIKey)
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
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.NewMalformedJSON(string(respBody), err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.NewMalformedJSON(string(respBody), fmt.Errorf("no choices in completion response"))
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, errors.NewUpstreamUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUpstreamError(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}

// CheckHealth probes the local backend. Always true for external APIs, which
// have no cheap unauthenticated probe.
func (c *Client) CheckHealth(ctx context.Context) bool {
	if c.config.UseExternalAPI {
		return true
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.OllamaURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ListModels returns the model names the local backend has available.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.OllamaURL+"/api/tags", nil)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable(err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewUpstreamError(resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.NewMalformedJSON("", err)
	}

	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// ExtractJSON finds the first top-level JSON object in text, falling back to
// the first array. The span runs from the first opening brace to the last
// closing one, which tolerates leading and trailing prose around the value.
func ExtractJSON(text string) (json.RawMessage, bool) {
	if raw, ok := extractSpan(text, '{', '}'); ok {
		return raw, true
	}
	return extractSpan(text, '[', ']')
}

func extractSpan(text string, open, close byte) (json.RawMessage, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return nil, false
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return nil, false
	}
	candidate := []byte(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
