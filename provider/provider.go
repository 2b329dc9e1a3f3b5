package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chuqudee-sand/feedback-summarizer/config"
	gemini_provider "github.com/chuqudee-sand/feedback-summarizer/provider/gemini"
	openai_provider "github.com/chuqudee-sand/feedback-summarizer/provider/openai"
)

// ErrRateLimited marks quota/rate-limit failures. Test stubs wrap it;
// real providers are classified by the markers in their error text.
var ErrRateLimited = errors.New("rate limited")

// Provider is the interface every text-generation backend must satisfy.
// Recognized options: temperature (float64), max_output_tokens (int);
// unset options fall back to the provider's configured defaults.
type Provider interface {
	Generate(ctx context.Context, prompt string, options map[string]interface{}) (string, error)
}

// NewProvider creates an LLM client based on the provider configuration.
func NewProvider(cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case "gemini":
		return gemini_provider.NewClient(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxOutputTokens)
	case "openai":
		return openai_provider.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxOutputTokens, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Type)
	}
}

// IsRateLimited reports whether err looks like a quota/rate-limit
// failure: the sentinel, an HTTP 429, or the Gemini RESOURCE_EXHAUSTED /
// quota markers.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "QUOTA")
}
