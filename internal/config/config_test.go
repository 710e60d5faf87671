package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.ModelBackend)
	assert.NotEmpty(t, cfg.GeminiModel)
	assert.NotZero(t, cfg.SessionTTL)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("MODEL_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "claude", cfg.ModelBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, "30m0s", cfg.SessionTTL.String())
}

func TestLoadSecretsFile(t *testing.T) {
	secrets := filepath.Join(t.TempDir(), "secrets.toml")
	err := os.WriteFile(secrets, []byte("GEMINI_API_KEY = \"file-gemini\"\nCLAUDE_API_KEY = \"file-claude\"\n"), 0600)
	require.NoError(t, err)

	t.Setenv("SECRETS_FILE", secrets)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-gemini", cfg.GeminiAPIKey)
	assert.Equal(t, "file-claude", cfg.ClaudeAPIKey)
}

func TestLoadEnvWinsOverSecretsFile(t *testing.T) {
	secrets := filepath.Join(t.TempDir(), "secrets.toml")
	err := os.WriteFile(secrets, []byte("GEMINI_API_KEY = \"file-gemini\"\n"), 0600)
	require.NoError(t, err)

	t.Setenv("SECRETS_FILE", secrets)
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-gemini", cfg.GeminiAPIKey)
}

func TestLoadMalformedSecretsFile(t *testing.T) {
	secrets := filepath.Join(t.TempDir(), "secrets.toml")
	err := os.WriteFile(secrets, []byte("= this is not toml"), 0600)
	require.NoError(t, err)

	t.Setenv("SECRETS_FILE", secrets)

	_, err = Load()
	assert.Error(t, err)
}

func TestLoadInvalidSessionTTL(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("SESSION_TTL", "nonsense")

	_, err := Load()
	assert.Error(t, err)
}
