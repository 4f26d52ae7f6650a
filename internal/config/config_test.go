package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	ConfigPathEnv, "ENVIRONMENT", "PORT", "LOG_LEVEL", "CORS_ORIGINS",
	"LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "GEMINI_API_KEY", "GEMINI",
	"FIRECRAWL_API_KEY", "FIRECRAWL", "FIRECRAWL_BASE_URL", "SENTRY_DSN",
	"LANGFUSE_PUBLIC_KEY", "LANGFUSE_SECRET_KEY", "LANGFUSE_HOST", "LANGFUSE_ENABLED",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMModel)
	assert.Equal(t, "https://api.firecrawl.dev", cfg.FirecrawlBaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.AllowAllOrigins())
	assert.False(t, cfg.LangfuseEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ModelDefaultFollowsProvider(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		model     string
		wantModel string
	}{
		{"gemini default", "", "", DefaultGeminiModel},
		{"openai without model", "openai", "", DefaultOpenAIModel},
		{"openai mixed case", "OpenAI", "", DefaultOpenAIModel},
		{"explicit model wins", "openai", "gpt-4o-mini", "gpt-4o-mini"},
		{"gemini explicit model", "gemini", "gemini-2.5-pro", "gemini-2.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LLM_PROVIDER", tt.provider)
			t.Setenv("LLM_MODEL", tt.model)

			cfg, err := LoadFile("")
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, cfg.LLMModel)
		})
	}
}

func TestLoadFile_OpenAIProviderWithoutModel(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "harmonix.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nprovider = \"openai\"\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, DefaultOpenAIModel, cfg.LLMModel)
}

func TestLoad_EnvFallbackKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI", "legacy-gemini")
	t.Setenv("FIRECRAWL", "legacy-firecrawl")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-gemini", cfg.GeminiAPIKey)
	assert.Equal(t, "legacy-firecrawl", cfg.FirecrawlAPIKey)

	t.Setenv("GEMINI_API_KEY", "primary-gemini")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "primary-gemini", cfg.GeminiAPIKey)
}

func TestLoad_CORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://harmonix.app ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://harmonix.app"}, cfg.CORSOrigins)
	assert.False(t, cfg.AllowAllOrigins())
}

func TestLoadFile_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "harmonix.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[server]
port = "9000"
cors_origins = ["https://harmonix.app"]

[llm]
provider = "OpenAI"
model = "gpt-4.1-mini"
openai_api_key = "sk-file"

[firecrawl]
api_key = "fc-file"

[langfuse]
enabled = true
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLMModel)
	assert.Equal(t, "sk-file", cfg.OpenAIAPIKey)
	assert.Equal(t, "fc-file", cfg.FirecrawlAPIKey)
	assert.Equal(t, []string{"https://harmonix.app"}, cfg.CORSOrigins)
	assert.True(t, cfg.LangfuseEnabled)

	t.Setenv("PORT", "7000")
	t.Setenv("LANGFUSE_ENABLED", "false")
	t.Setenv(ConfigPathEnv, path)
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.False(t, cfg.LangfuseEnabled)
	assert.Equal(t, "sk-file", cfg.OpenAIAPIKey)
}

func TestLoadFile_Errors(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = = 1"), 0o600))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}
