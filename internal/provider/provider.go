// Package provider selects and constructs the LLM backend used for travel
// answer generation. Supported backends: Ollama, OpenAI, Azure OpenAI,
// Google Gemini, and Ark. When no provider is configured the caller falls
// back to the deterministic mock generator instead.
package provider

import (
	"fmt"
	"os"
	"strconv"
)

// Backend enumerates the supported LLM inference providers.
type Backend string

const (
	// BackendOllama selects a locally running Ollama instance.
	BackendOllama Backend = "ollama"
	// BackendOpenAI selects the OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendAzure selects Azure OpenAI Service.
	BackendAzure Backend = "azure"
	// BackendGemini selects Google Gemini via AI Studio.
	BackendGemini Backend = "gemini"
	// BackendArk selects the Volcano Engine Ark runtime.
	BackendArk Backend = "ark"
)

// Config holds all provider-level configuration resolved from environment
// variables or explicit caller-supplied values.
type Config struct {
	// Backend identifies which inference provider to use.
	Backend Backend

	// Model is the model name or deployment ID to use (e.g. "gpt-4o", "llama3").
	Model string

	// BaseURL overrides the default API endpoint (required for Azure and Ark).
	BaseURL string

	// APIKey is the authentication credential for the selected provider.
	APIKey string

	// AzureDeployment is the Azure OpenAI deployment name (Azure only).
	AzureDeployment string

	// AzureAPIVersion is the Azure OpenAI REST API version (Azure only).
	AzureAPIVersion string

	// MaxTokens caps the number of tokens the model may generate per response.
	MaxTokens int

	// Temperature controls response randomness (0.0-1.0).
	Temperature float32
}

// Validate checks that the config names a known backend with the credentials
// that backend requires, so callers get a clear error at startup rather than
// on the first request.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOllama:
		// Local instance, no credentials required.
	case BackendOpenAI, BackendGemini, BackendArk:
		if c.APIKey == "" {
			return fmt.Errorf("provider: %s backend requires an API key", c.Backend)
		}
	case BackendAzure:
		if c.APIKey == "" {
			return fmt.Errorf("provider: azure backend requires AZURE_OPENAI_API_KEY")
		}
		if c.BaseURL == "" {
			return fmt.Errorf("provider: azure backend requires AZURE_OPENAI_ENDPOINT")
		}
		if c.AzureDeployment == "" {
			return fmt.Errorf("provider: azure backend requires AZURE_OPENAI_DEPLOYMENT")
		}
	default:
		return fmt.Errorf("provider: unknown backend %q (valid values: ollama, openai, azure, gemini, ark)", c.Backend)
	}
	if c.Model == "" {
		return fmt.Errorf("provider: model name must not be empty")
	}
	return nil
}

// Configured reports whether a model provider is selected in the environment.
// When false, generation runs on the deterministic mock backend.
func Configured() bool {
	return os.Getenv("MODEL_PROVIDER") != ""
}

// ConfigFromEnv resolves provider configuration from environment variables.
// MODEL_PROVIDER selects the backend; each provider uses its own native
// credential env vars:
//
//	Ollama: OLLAMA_HOST (default: http://localhost:11434), OLLAMA_MODEL (default: llama3)
//	OpenAI: OPENAI_API_KEY, OPENAI_MODEL (default: gpt-4o-mini)
//	Azure:  AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT,
//	        AZURE_OPENAI_API_VERSION (default: 2024-02-01)
//	Gemini: GOOGLE_API_KEY, GEMINI_MODEL (default: gemini-1.5-pro)
//	Ark:    ARK_API_KEY, ARK_BASE_URL, ARK_MODEL
//
//	Shared: MODEL_MAX_TOKENS (default: 2048), MODEL_TEMPERATURE (default: 0.7)
func ConfigFromEnv() *Config {
	cfg := &Config{
		Backend:     Backend(os.Getenv("MODEL_PROVIDER")),
		MaxTokens:   getEnvInt("MODEL_MAX_TOKENS", 2048),
		Temperature: getEnvFloat32("MODEL_TEMPERATURE", 0.7),
	}

	switch cfg.Backend {
	case BackendOllama:
		cfg.BaseURL = getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434")
		cfg.Model = getEnvOrDefault("OLLAMA_MODEL", "llama3")
	case BackendOpenAI:
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		cfg.Model = getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini")
	case BackendAzure:
		cfg.APIKey = os.Getenv("AZURE_OPENAI_API_KEY")
		cfg.BaseURL = os.Getenv("AZURE_OPENAI_ENDPOINT")
		cfg.AzureDeployment = os.Getenv("AZURE_OPENAI_DEPLOYMENT")
		cfg.AzureAPIVersion = getEnvOrDefault("AZURE_OPENAI_API_VERSION", "2024-02-01")
		cfg.Model = cfg.AzureDeployment
	case BackendGemini:
		cfg.APIKey = os.Getenv("GOOGLE_API_KEY")
		cfg.Model = getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-pro")
	case BackendArk:
		cfg.APIKey = os.Getenv("ARK_API_KEY")
		cfg.BaseURL = os.Getenv("ARK_BASE_URL")
		cfg.Model = os.Getenv("ARK_MODEL")
	}

	return cfg
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat32 returns the float32 value of the named environment variable,
// or fallback if the variable is unset, empty, or not parseable.
func getEnvFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}
