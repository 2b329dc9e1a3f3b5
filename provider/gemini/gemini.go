package gemini_provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// client implements text generation against the Gemini API.
type client struct {
	genai       *genai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewClient creates a Gemini client with default generation settings.
// The model defaults to the flash tier when empty.
func NewClient(apiKey, model string, temperature float64, maxTokens int) (*client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	gc, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &client{genai: gc, model: model, temperature: temperature, maxTokens: maxTokens}, nil
}

// Generate sends a single-turn prompt and returns the trimmed response
// text. Recognized options: temperature (float64), max_output_tokens
// (int). Quota errors carry the API's RESOURCE_EXHAUSTED marker in the
// error text; classification is the caller's job.
func (c *client) Generate(ctx context.Context, prompt string, options map[string]interface{}) (string, error) {
	temperature := c.temperature
	if t, ok := options["temperature"].(float64); ok {
		temperature = t
	}
	maxTokens := c.maxTokens
	if mt, ok := options["max_output_tokens"].(int); ok {
		maxTokens = mt
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini generate: no candidates in response")
	}
	return strings.TrimSpace(resp.Text()), nil
}
