package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
		detail string
	}{
		{"not found", func(w http.ResponseWriter) { NotFound(w, CodeNoRuns, "none yet") }, http.StatusNotFound, CodeNoRuns, ""},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, CodeCycleInProgress, "busy") }, http.StatusConflict, CodeCycleInProgress, ""},
		{"store unavailable", func(w http.ResponseWriter) { StoreUnavailable(w, errors.New("disk gone")) }, http.StatusServiceUnavailable, CodeStoreUnavailable, "disk gone"},
		{"rate limited", RateLimited, http.StatusTooManyRequests, CodeRateLimited, ""},
		{"failure without error", func(w http.ResponseWriter) { Failure(w, http.StatusBadGateway, CodeUpstreamFailed, "upstream", nil) }, http.StatusBadGateway, CodeUpstreamFailed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.detail, body.Error.Detail)
		})
	}
}

func TestCached(t *testing.T) {
	rec := httptest.NewRecorder()
	Cached(rec, []byte(`[]`), `"abc"`, 10*time.Minute, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"abc"`, rec.Header().Get("ETag"))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "public, max-age=600, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "[]", rec.Body.String())
}

func TestMarkdown(t *testing.T) {
	rec := httptest.NewRecorder()
	Markdown(rec, "## Bluecoats Visual Recap\n", `"e1"`)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `"e1"`, rec.Header().Get("ETag"))

	rec = httptest.NewRecorder()
	Markdown(rec, "body", "")
	assert.Empty(t, rec.Header().Get("ETag"))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, false, map[string]any{"store": "sqlite"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "sqlite", body["store"])
	assert.NotEmpty(t, body["timestamp"])
}
