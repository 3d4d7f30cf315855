package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "projet/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		assert.NotContains(t, body, "error_description")
	})

	t.Run("bad request includes description and key", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.NewKeyed(dErrors.CodeBadRequest, dErrors.KeyIDExists, "a new city cannot already have an ID"))

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "a new city cannot already have an ID", body["error_description"])
		assert.Equal(t, "idexists", body["error_key"])
	})

	t.Run("plain error is treated as internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, io.ErrUnexpectedEOF)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

func (r *nameRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *nameRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	decode := func(body string) (*nameRequest, *httptest.ResponseRecorder, bool) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		w := httptest.NewRecorder()
		req, ok := DecodeAndPrepare[nameRequest](w, r, logger, context.Background(), "req-1")
		return req, w, ok
	}

	t.Run("normalizes then validates", func(t *testing.T) {
		req, _, ok := decode(`{"name":"  Lyon  "}`)
		require.True(t, ok)
		assert.Equal(t, "Lyon", req.Name)
	})

	t.Run("validation failure writes 400", func(t *testing.T) {
		_, w, ok := decode(`{"name":"   "}`)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body writes 400", func(t *testing.T) {
		_, w, ok := decode(`{"name":`)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body writes 400", func(t *testing.T) {
		_, w, ok := decode(``)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
