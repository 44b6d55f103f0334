package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"muzza-postulaciones/internal/usecase"
	"muzza-postulaciones/pkg/gemini"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	configured bool
	text       string
	err        error
	prompts    []string
}

func (g *fakeGenerator) IsConfigured() bool { return g.configured }

func (g *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.err
}

func TestQuestionProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Should use the fallback without calling an unconfigured generator", func(t *testing.T) {
		gen := &fakeGenerator{}
		q := usecase.NewQuestionProvider(gen, 3, 3).Fetch(ctx)

		assert.Equal(t, usecase.FallbackQuestions(), q)
		assert.Empty(t, gen.prompts)
		assert.Len(t, q.CustomerService, 3)
		assert.Len(t, q.SalesAptitude, 3)
	})

	t.Run("Should use the fallback with a nil generator", func(t *testing.T) {
		q := usecase.NewQuestionProvider(nil, 3, 3).Fetch(ctx)
		assert.Equal(t, usecase.FallbackQuestions(), q)
	})

	t.Run("Should parse fenced JSON and ask for the configured counts", func(t *testing.T) {
		gen := &fakeGenerator{
			configured: true,
			text:       "```json\n{\"customerService\":[\"A\",\"B\"],\"salesAptitude\":[\"C\"]}\n```",
		}
		q := usecase.NewQuestionProvider(gen, 2, 1).Fetch(ctx)

		assert.Equal(t, []string{"A", "B"}, q.CustomerService)
		assert.Equal(t, []string{"C"}, q.SalesAptitude)
		require.Len(t, gen.prompts, 1)
		assert.Contains(t, gen.prompts[0], "Genera 2 preguntas")
		assert.Contains(t, gen.prompts[0], "y 1 preguntas")
	})

	t.Run("Should fall back on generator errors and malformed output", func(t *testing.T) {
		cases := map[string]*fakeGenerator{
			"network error": {configured: true, err: errors.New("dial tcp: timeout")},
			"status error":  {configured: true, err: &gemini.StatusError{StatusCode: 500, Body: "oops"}},
			"not json":      {configured: true, text: "Aquí tienes tus preguntas"},
			"missing list":  {configured: true, text: `{"customerService":["A"]}`},
			"blank entry":   {configured: true, text: `{"customerService":["A"],"salesAptitude":["  "]}`},
			"wrong type":    {configured: true, text: `{"customerService":"A","salesAptitude":["B"]}`},
		}
		for name, gen := range cases {
			q := usecase.NewQuestionProvider(gen, 3, 3).Fetch(ctx)
			assert.Equal(t, usecase.FallbackQuestions(), q, name)
		}
	})

	t.Run("Should return an independent copy of the fallback", func(t *testing.T) {
		q := usecase.FallbackQuestions()
		q.CustomerService[0] = "changed"
		assert.NotEqual(t, "changed", usecase.FallbackQuestions().CustomerService[0])
	})

	t.Run("Should fetch through the gemini client end to end", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"customerService\":[\"X\"],\"salesAptitude\":[\"Y\"]}"}]}}]}`))
		}))
		defer srv.Close()

		client := gemini.NewClient(srv.URL, "gemini-1.5-flash", "key", 5*time.Second)
		q := usecase.NewQuestionProvider(client, 1, 1).Fetch(ctx)

		assert.Equal(t, []string{"X"}, q.CustomerService)
		assert.Equal(t, []string{"Y"}, q.SalesAptitude)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
