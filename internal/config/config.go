package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	ListenAddr   string
	ModelBackend string
	GeminiAPIKey string
	GeminiModel  string
	ClaudeAPIKey string
	ClaudeModel  string
	OllamaHost   string
	OllamaModel  string
	SecretsFile  string
	SessionTTL   time.Duration
	LogLevel     string
	LogFile      string
}

// secretsFile mirrors the TOML secrets layout: flat upper-case keys, one per
// provider, so an existing secrets.toml keeps working unchanged.
type secretsFile struct {
	GeminiAPIKey string `toml:"GEMINI_API_KEY"`
	ClaudeAPIKey string `toml:"CLAUDE_API_KEY"`
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8080"),
		ModelBackend: getEnv("MODEL_BACKEND", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		ClaudeAPIKey: getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-latest"),
		OllamaHost:   getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  getEnv("OLLAMA_MODEL", "llava"),
		SecretsFile:  getEnv("SECRETS_FILE", "secrets.toml"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}

	ttl := getEnv("SESSION_TTL", "2h")
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
	}
	cfg.SessionTTL = d

	if err := cfg.loadSecrets(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSecrets fills API keys from the TOML secrets file. Environment values
// win over file values; a missing file is not an error because keys may come
// from the environment alone.
func (c *Config) loadSecrets() error {
	data, err := os.ReadFile(c.SecretsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read secrets file: %w", err)
	}

	var s secretsFile
	if err := toml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse secrets file %s: %w", c.SecretsFile, err)
	}

	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = s.GeminiAPIKey
	}
	if c.ClaudeAPIKey == "" {
		c.ClaudeAPIKey = s.ClaudeAPIKey
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
