// Package respond writes the admin API's JSON, Markdown and error responses.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Error codes carried in ErrorResponse.
const (
	CodeNotCompeted      = "NOT_COMPETED"
	CodeNoRuns           = "NO_RUNS"
	CodeCycleInProgress  = "CYCLE_IN_PROGRESS"
	CodeCycleFailed      = "CYCLE_FAILED"
	CodeMalformedScores  = "MALFORMED_SCORES"
	CodeUpstreamFailed   = "UPSTREAM_FAILED"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeEncodeFailed     = "ENCODE_FAILED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// ----------------------------------------------------------------------------
// Success
// ----------------------------------------------------------------------------

// Cached writes pre-encoded JSON from the response cache with its ETag.
func Cached(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, hit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	cacheHeaders(w, ttl, hit)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// NotModified answers a matching If-None-Match.
func NotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// JSON marshals v and writes it uncached.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Markdown writes a rendered recap body. etag may be empty.
func Markdown(w http.ResponseWriter, body, etag string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// Health writes the health-check shape: status, timestamp and extra fields.
// An unhealthy check is sent as 503.
func Health(w http.ResponseWriter, healthy bool, fields map[string]any) {
	body := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range fields {
		body[k] = v
	}
	status := http.StatusOK
	if !healthy {
		body["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	JSON(w, status, body)
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

// Error sends a structured JSON error without detail.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, code, message, "")
}

// Failure sends a structured JSON error whose detail is err's text.
func Failure(w http.ResponseWriter, status int, code, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	write(w, status, code, message, detail)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, code, message string) {
	write(w, http.StatusNotFound, code, message, "")
}

// Conflict sends a 409.
func Conflict(w http.ResponseWriter, code, message string) {
	write(w, http.StatusConflict, code, message, "")
}

// StoreUnavailable sends a 503 for a seen store that could not be read.
func StoreUnavailable(w http.ResponseWriter, err error) {
	Failure(w, http.StatusServiceUnavailable, CodeStoreUnavailable, "Could not load the seen record", err)
}

// RateLimited sends a 429; the caller sets Retry-After.
func RateLimited(w http.ResponseWriter) {
	write(w, http.StatusTooManyRequests, CodeRateLimited, "Too many requests", "")
}

func write(w http.ResponseWriter, status int, code, message, detail string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func cacheHeaders(w http.ResponseWriter, ttl time.Duration, hit bool) {
	maxAge := int(ttl.Seconds())
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
}
