package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"muzza-postulaciones/pkg/gemini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	t.Run("Should post the prompt and return candidate text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("key"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			contents := body["contents"].([]any)
			parts := contents[0].(map[string]any)["parts"].([]any)
			assert.Equal(t, "hola", parts[0].(map[string]any)["text"])

			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"respuesta"}]}}]}`))
		}))
		defer srv.Close()

		c := gemini.NewClient(srv.URL+"/", "gemini-1.5-flash", "secret", time.Second)
		text, err := c.GenerateText(context.Background(), "hola")
		require.NoError(t, err)
		assert.Equal(t, "respuesta", text)
	})

	t.Run("Should surface non-success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"bad key"}`))
		}))
		defer srv.Close()

		c := gemini.NewClient(srv.URL, "m", "k", time.Second)
		_, err := c.GenerateText(context.Background(), "x")
		var statusErr *gemini.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "bad key")
	})

	t.Run("Should fail on empty candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		c := gemini.NewClient(srv.URL, "m", "k", time.Second)
		_, err := c.GenerateText(context.Background(), "x")
		assert.ErrorIs(t, err, gemini.ErrEmptyResponse)
	})
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, gemini.NewClient("http://x", "m", "", 0).IsConfigured())
	assert.True(t, gemini.NewClient("http://x", "m", "k", 0).IsConfigured())
	var nilClient *gemini.Client
	assert.False(t, nilClient.IsConfigured())
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, gemini.StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, gemini.StripFences("  {\"a\":1} "))
}
