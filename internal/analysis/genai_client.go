package analysis

import (
	"context"
	"fmt"

	"library-acquisition/backend/internal/analysis/deps"

	"google.golang.org/genai"
)

// GeminiGenerator implements deps.Generator using the Gemini API
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini API client authenticated with apiKey.
// Options may override the client config (base URL, HTTP client) before it is built.
func NewGeminiGenerator(ctx context.Context, apiKey string, opts ...func(*genai.ClientConfig)) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// WithBaseURL points the client at a different API host
func WithBaseURL(baseURL string) func(*genai.ClientConfig) {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// Generate sends a single JSON-mode request and returns the response text
func (g *GeminiGenerator) Generate(ctx context.Context, req deps.GenerateRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.ResponseSchema,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}, config)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	return resp.Text(), nil
}
