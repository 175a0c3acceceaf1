package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorWithCode(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithCode(rec, "Unauthorized", CodeUnauthorized, http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Unauthorized","code":"UNAUTHORIZED"}`, rec.Body.String())
}

func TestRespondError_OmitsEmptyCode(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, "Project not found", http.StatusNotFound)

	assert.JSONEq(t, `{"error":"Project not found"}`, rec.Body.String())
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondOK(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Title string `json:"title"`
	}

	t.Run("valid", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"P"}`))
		require.NoError(t, DecodeJSON(req, &b))
		assert.Equal(t, "P", b.Title)
	})

	t.Run("empty body", func(t *testing.T) {
		b := body{Title: "unchanged"}
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		require.NoError(t, DecodeJSON(req, &b))
		assert.Equal(t, "unchanged", b.Title)
	})

	t.Run("malformed", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":`))
		assert.Error(t, DecodeJSON(req, &b))
	})
}
