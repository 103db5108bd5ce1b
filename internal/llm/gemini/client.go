// Package gemini implements the llm.Client gateway on top of the
// Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"paragraph-backend/internal/llm"
)

const systemInstruction = "You are an expert academic writing assistant. " +
	"Always answer with a single JSON object and nothing else."

const (
	defaultModel    = "gemini-2.5-flash-lite"
	temperature     = 0.2
	maxOutputTokens = 4096
)

// KeyFunc resolves the API key at call time so key changes made through
// the settings endpoints take effect without a restart.
type KeyFunc func(ctx context.Context) (string, error)

// StaticKey returns a KeyFunc for a fixed credential.
func StaticKey(key string) KeyFunc {
	return func(context.Context) (string, error) { return key, nil }
}

// Client talks to the Gemini API. The underlying SDK client is cached
// per credential and rebuilt when the key changes.
type Client struct {
	model   string
	keyFn   KeyFunc
	mu      sync.Mutex
	key     string
	backend *genai.Client
}

func New(model string, keyFn KeyFunc) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{model: model, keyFn: keyFn}
}

// Ask sends the prompt and decodes the reply as a JSON object. A reply
// that is not valid JSON, or valid JSON that is not an object, yields a
// parse-failure marker rather than an error.
func (c *Client) Ask(ctx context.Context, prompt string) (map[string]any, error) {
	backend, err := c.backendFor(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := backend.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	return DecodeObject(raw), nil
}

// DecodeObject strips markdown code fences and decodes the text as a
// JSON object, falling back to a parse-failure marker.
func DecodeObject(raw string) map[string]any {
	cleaned := stripFences(raw)

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return llm.ParseFailure(raw, err.Error())
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return llm.ParseFailure(raw, "model reply is not a JSON object")
	}
	return obj
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		// drop the language tag line, e.g. "json"
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// backendFor returns a cached SDK client, rebuilding it when the
// resolved credential differs from the one it was built with.
func (c *Client) backendFor(ctx context.Context) (*genai.Client, error) {
	key, err := c.keyFn(ctx)
	if err != nil {
		return nil, fmt.Errorf("gemini: resolve api key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, llm.ErrNoAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil && c.key == key {
		return c.backend, nil
	}

	backend, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	c.key = key
	c.backend = backend
	return backend, nil
}
