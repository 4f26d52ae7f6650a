package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Provider names accepted in LLM_PROVIDER
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default models used when LLM_MODEL is not set
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4.1-mini"
)

// ConfigPathEnv names the environment variable pointing at an optional TOML config file
const ConfigPathEnv = "HARMONIX_CONFIG"

// Config holds the application configuration
// Note: This is a stateless service - no database or auth secrets needed
type Config struct {
	// Environment
	Environment string
	Port        string
	LogLevel    string
	CORSOrigins []string

	// LLM
	LLMProvider  string // "gemini" or "openai"
	LLMModel     string
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Search / scrape
	FirecrawlAPIKey  string
	FirecrawlBaseURL string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

// FileConfig is the TOML shape of the optional config file.
// Every value in it can be overridden by the matching environment variable.
type FileConfig struct {
	Environment string `toml:"environment"`
	Server      struct {
		Port        string   `toml:"port"`
		LogLevel    string   `toml:"log_level"`
		CORSOrigins []string `toml:"cors_origins"`
	} `toml:"server"`
	LLM struct {
		Provider     string `toml:"provider"`
		Model        string `toml:"model"`
		OpenAIAPIKey string `toml:"openai_api_key"`
		GeminiAPIKey string `toml:"gemini_api_key"`
	} `toml:"llm"`
	Firecrawl struct {
		APIKey  string `toml:"api_key"`
		BaseURL string `toml:"base_url"`
	} `toml:"firecrawl"`
	Sentry struct {
		DSN string `toml:"dsn"`
	} `toml:"sentry"`
	Langfuse struct {
		Enabled   bool   `toml:"enabled"`
		PublicKey string `toml:"public_key"`
		SecretKey string `toml:"secret_key"`
		Host      string `toml:"host"`
	} `toml:"langfuse"`
}

// Load reads configuration from the environment, layered over the TOML file
// named by HARMONIX_CONFIG when it is set.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigPathEnv))
}

// LoadFile reads configuration from the environment, layered over the TOML file at path.
// An empty path means environment and defaults only.
func LoadFile(path string) (*Config, error) {
	var file FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	langfuseEnabled := file.Langfuse.Enabled
	if v := os.Getenv("LANGFUSE_ENABLED"); v != "" {
		langfuseEnabled = v == "true"
	}

	origins := file.Server.CORSOrigins
	if v := os.Getenv("CORS_ORIGINS"); v != "" || len(origins) == 0 {
		origins = splitList(getEnv("CORS_ORIGINS", "*"))
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", or(file.LLM.Provider, ProviderGemini)))

	return &Config{
		Environment:       getEnv("ENVIRONMENT", or(file.Environment, "development")),
		Port:              getEnv("PORT", or(file.Server.Port, "8080")),
		LogLevel:          getEnv("LOG_LEVEL", or(file.Server.LogLevel, "info")),
		CORSOrigins:       origins,
		LLMProvider:       provider,
		LLMModel:          getEnv("LLM_MODEL", or(file.LLM.Model, DefaultModel(provider))),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", file.LLM.OpenAIAPIKey),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", getEnv("GEMINI", file.LLM.GeminiAPIKey)),
		FirecrawlAPIKey:   getEnv("FIRECRAWL_API_KEY", getEnv("FIRECRAWL", file.Firecrawl.APIKey)),
		FirecrawlBaseURL:  getEnv("FIRECRAWL_BASE_URL", or(file.Firecrawl.BaseURL, "https://api.firecrawl.dev")),
		SentryDSN:         getEnv("SENTRY_DSN", file.Sentry.DSN),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", file.Langfuse.PublicKey),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", file.Langfuse.SecretKey),
		LangfuseHost:      getEnv("LANGFUSE_HOST", or(file.Langfuse.Host, "https://cloud.langfuse.com")),
		LangfuseEnabled:   langfuseEnabled,
	}, nil
}

// DefaultModel returns the model used for provider when none is configured
func DefaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowAllOrigins reports whether CORS is left wide open
func (c *Config) AllowAllOrigins() bool {
	return len(c.CORSOrigins) == 0 || (len(c.CORSOrigins) == 1 && c.CORSOrigins[0] == "*")
}
