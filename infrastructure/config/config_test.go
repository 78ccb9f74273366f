package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "layered", cfg.LayoutAlgorithm)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 2000, cfg.ChatMaxOutputTokens)
	assert.InDelta(t, 0.7, cfg.ChatTemperature, 1e-9)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GOOGLE_API_KEY=from-file\nLAYOUT_ALGORITHM=force\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	t.Setenv("LAYOUT_ALGORITHM", "layered")
	t.Cleanup(func() { os.Unsetenv("GOOGLE_API_KEY") })

	// Act
	cfg, err := LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GeminiAPIKey)
	assert.True(t, cfg.ChatEnabled())
	assert.Equal(t, "layered", cfg.LayoutAlgorithm, "process environment wins over the file")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LayoutAlgorithm:     "layered",
			StoreDriver:         StoreMemory,
			ChatMaxOutputTokens: 2000,
			ChatTemperature:     0.7,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad algorithm", func(c *Config) { c.LayoutAlgorithm = "radial" }, "LAYOUT_ALGORITHM"},
		{"bad driver", func(c *Config) { c.StoreDriver = "redis" }, "STORE_DRIVER"},
		{"dynamodb without table", func(c *Config) { c.StoreDriver = StoreDynamoDB }, "CHAT_TABLE"},
		{"watch without path", func(c *Config) { c.WatchDataset = true }, "DATASET_PATH"},
		{"production without secret", func(c *Config) { c.Environment = "production" }, "JWT_SECRET"},
		{"temperature out of range", func(c *Config) { c.ChatTemperature = 3 }, "CHAT_TEMPERATURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("ORIGINS", " https://a.example , ,https://b.example")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvList("ORIGINS", nil))
	assert.Equal(t, []string{"x"}, getEnvList("UNSET_ORIGINS", []string{"x"}))
}
