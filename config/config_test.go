package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfig(t *testing.T) {
	t.Run("Should fall back to the legacy VITE_ keys", func(t *testing.T) {
		unsetEnv(t, "GEMINI_API_KEY")
		unsetEnv(t, "META_PIXEL_ID")
		t.Setenv("VITE_GEMINI_API_KEY", "legacy-key")
		t.Setenv("VITE_META_PIXEL_ID", "42")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
		assert.Equal(t, "42", cfg.MetaPixelID)
	})

	t.Run("Should prefer the unprefixed keys", func(t *testing.T) {
		t.Setenv("VITE_GEMINI_API_KEY", "legacy-key")
		t.Setenv("GEMINI_API_KEY", "key")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "key", cfg.GeminiAPIKey)
	})

	t.Run("Should parse typed values and keep question counts positive", func(t *testing.T) {
		t.Setenv("CV_REQUIRED", "true")
		t.Setenv("QUESTIONS_CUSTOMER_SERVICE", "0")
		t.Setenv("QUESTIONS_SALES_APTITUDE", "5")
		t.Setenv("GEMINI_BASE_URL", "http://localhost:9999/")
		t.Setenv("SESSION_TTL_MINUTES", "not-a-number")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.CVRequired)
		assert.Equal(t, 3, cfg.CustomerServiceQuestions)
		assert.Equal(t, 5, cfg.SalesAptitudeQuestions)
		assert.Equal(t, "http://localhost:9999", cfg.GeminiBaseURL)
		assert.Equal(t, 120, cfg.SessionTTLMinutes)
	})
}
