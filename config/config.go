package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the summarizer service
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// ProviderConfig selects and configures the LLM provider
type ProviderConfig struct {
	Type            string        `mapstructure:"type"` // gemini or openai
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// PipelineConfig tunes the summarization pipeline
type PipelineConfig struct {
	CohortColumn   string            `mapstructure:"cohort_column"`
	ChunkSize      int               `mapstructure:"chunk_size"`
	ParseMode      string            `mapstructure:"parse_mode"` // free_text or json_strict
	MaxRetries     int               `mapstructure:"max_retries"`
	ThemesPerChunk int               `mapstructure:"themes_per_chunk"`
	QuestionLabels map[string]string `mapstructure:"question_labels"`
}

func (p ProviderConfig) Validate() error {
	switch p.Type {
	case "gemini", "openai":
	default:
		return fmt.Errorf("provider.type must be gemini or openai, got %q", p.Type)
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return fmt.Errorf("provider.api_key is required (set %s)", envKeyName(p.Type))
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("provider.temperature must be within [0,1]")
	}
	return nil
}

func (p PipelineConfig) Validate() error {
	if p.ChunkSize <= 0 {
		return fmt.Errorf("pipeline.chunk_size must be > 0")
	}
	switch p.ParseMode {
	case "free_text", "json_strict":
	default:
		return fmt.Errorf("pipeline.parse_mode must be free_text or json_strict, got %q", p.ParseMode)
	}
	if p.MaxRetries < 1 {
		return fmt.Errorf("pipeline.max_retries must be >= 1")
	}
	return nil
}

func envKeyName(providerType string) string {
	switch providerType {
	case "gemini":
		return "GEMINI_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	}
	return "SUMMARIZER_PROVIDER_API_KEY"
}

// LoadConfig reads configuration from file and environment. The provider
// API key falls back to the provider's conventional environment variable
// (GEMINI_API_KEY / OPENAI_API_KEY) when the config file leaves it empty;
// a missing key is fatal at startup.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("provider.type", "gemini")
	viper.SetDefault("provider.model", "gemini-1.5-flash-latest")
	viper.SetDefault("provider.temperature", 0.7)
	viper.SetDefault("provider.max_output_tokens", 1024)
	viper.SetDefault("provider.timeout", 60*time.Second)
	viper.SetDefault("pipeline.cohort_column", "Cohort")
	viper.SetDefault("pipeline.chunk_size", 20)
	viper.SetDefault("pipeline.parse_mode", "json_strict")
	viper.SetDefault("pipeline.max_retries", 3)
	viper.SetDefault("pipeline.themes_per_chunk", 3)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("SUMMARIZER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env cover every
		// key. Anything else (unreadable or malformed file) is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if config.Provider.APIKey == "" {
		config.Provider.APIKey = os.Getenv(envKeyName(config.Provider.Type))
	}

	if err := config.Provider.Validate(); err != nil {
		panic(err)
	}
	if err := config.Pipeline.Validate(); err != nil {
		panic(err)
	}

	return &config
}
