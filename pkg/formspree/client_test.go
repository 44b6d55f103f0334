package formspree_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"muzza-postulaciones/pkg/formspree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestSendJSON(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ana", got.Name)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := formspree.NewClient(srv.URL, time.Second)
	require.NoError(t, c.Send(context.Background(), payload{Name: "Ana"}, nil))
	assert.Equal(t, 1, calls)
}

func TestSendMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.JSONEq(t, `{"name":"Ana"}`, r.FormValue(formspree.FieldSubmissionData))

		f, header, err := r.FormFile(formspree.FieldCV)
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))
	}))
	defer srv.Close()

	c := formspree.NewClient(srv.URL, time.Second)
	err := c.Send(context.Background(), payload{Name: "Ana"}, &formspree.File{Name: "cv.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
}

func TestSendFailure(t *testing.T) {
	t.Run("Should return status error with body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"down"}`))
		}))
		defer srv.Close()

		err := formspree.NewClient(srv.URL, time.Second).Send(context.Background(), payload{}, nil)
		var statusErr *formspree.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Contains(t, statusErr.Body, "down")
	})

	t.Run("Should return network errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		err := formspree.NewClient(url, time.Second).Send(context.Background(), payload{}, nil)
		require.Error(t, err)
		var statusErr *formspree.StatusError
		assert.NotErrorAs(t, err, &statusErr)
	})
}
