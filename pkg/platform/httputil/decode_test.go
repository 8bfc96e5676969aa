package httputil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReadBody(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("returns the raw body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/revoke", strings.NewReader("a.b.c"))
		w := httptest.NewRecorder()

		body, ok := ReadBody(w, req, logger, ctx, "req-1")
		assert.True(t, ok)
		assert.Equal(t, "a.b.c", body)
	})

	t.Run("empty body is not an error here", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/revoke", nil)
		w := httptest.NewRecorder()

		body, ok := ReadBody(w, req, logger, ctx, "req-1")
		assert.True(t, ok)
		assert.Empty(t, body)
	})

	t.Run("oversized body returns 413", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/revoke", strings.NewReader(strings.Repeat("x", 200)))
		w := httptest.NewRecorder()
		req.Body = http.MaxBytesReader(w, req.Body, 100)

		_, ok := ReadBody(w, req, logger, ctx, "req-1")
		assert.False(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"error":"payload_too_large","error_description":"request body too large"}`, w.Body.String())
	})

	t.Run("read failure returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/revoke", failingReader{})
		w := httptest.NewRecorder()

		_, ok := ReadBody(w, req, logger, ctx, "req-1")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
