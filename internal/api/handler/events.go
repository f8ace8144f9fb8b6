package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/dci-recap/internal/api/respond"
	"github.com/albapepper/dci-recap/internal/cache"
	"github.com/albapepper/dci-recap/internal/provider/competitionsuite"
	"github.com/albapepper/dci-recap/internal/recap"
	"github.com/albapepper/dci-recap/internal/seen"
)

const (
	eventsKeyPrefix = "events:"
	recapKeyPrefix  = "recap:"
)

// ListEvents returns the configured year's upstream events with a seen flag.
// @Summary List events
// @Description Lists the configured year's events from the upstream, each flagged as already handled or not.
// @Tags events
// @Produce json
// @Success 200 {array} poll.EventStatus
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	cycle := h.runner.Cycle()
	cacheKey := fmt.Sprintf("%s%d", eventsKeyPrefix, cycle.Options().Year)
	ttl := cache.TTLEvents

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.NotModified(w, etag)
			return
		}
		respond.Cached(w, data, etag, ttl, true)
		return
	}

	events, err := cycle.Events(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}

	raw, err := json.Marshal(events)
	if err != nil {
		respond.Failure(w, http.StatusInternalServerError, respond.CodeEncodeFailed, "Could not encode events", err)
		return
	}
	etag := h.cache.Set(cacheKey, raw, ttl)
	respond.Cached(w, raw, etag, ttl, false)
}

// GetRecap renders the recap for one event without publishing or recording it.
// @Summary Preview an event recap
// @Description Fetches one event's scores and renders the target participant's Visual recap. format=markdown returns the post body.
// @Tags events
// @Produce json
// @Produce text/markdown
// @Param eventID path string true "Upstream event id"
// @Param format query string false "Response format" Enums(json, markdown)
// @Success 200 {object} poll.Preview
// @Failure 404 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /events/{eventID}/recap [get]
func (h *Handler) GetRecap(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	asMarkdown := r.URL.Query().Get("format") == "markdown"

	cacheKey := recapKeyPrefix + eventID
	ttl := cache.TTLRecap

	raw, etag, hit := h.cache.Get(cacheKey)
	if !hit {
		preview, err := h.runner.Cycle().Preview(r.Context(), eventID)
		if err != nil {
			h.writeUpstreamError(w, err)
			return
		}
		if !preview.Found {
			respond.NotFound(w, respond.CodeNotCompeted, fmt.Sprintf("%s did not compete in event %s", h.cfg.TargetParticipant, eventID))
			return
		}
		if raw, err = json.Marshal(preview); err != nil {
			respond.Failure(w, http.StatusInternalServerError, respond.CodeEncodeFailed, "Could not encode recap", err)
			return
		}
		etag = h.cache.Set(cacheKey, raw, ttl)
	}

	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.NotModified(w, etag)
		return
	}
	if asMarkdown {
		var p struct {
			Markdown string `json:"markdown"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			respond.Failure(w, http.StatusInternalServerError, respond.CodeEncodeFailed, "Could not decode cached recap", err)
			return
		}
		respond.Markdown(w, p.Markdown, etag)
		return
	}
	respond.Cached(w, raw, etag, ttl, hit)
}

// writeUpstreamError maps collaborator failures to status codes.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, err error) {
	h.logger.Warn("admin request failed", "error", err)
	switch {
	case errors.Is(err, recap.ErrMalformedScoreData):
		respond.Failure(w, http.StatusUnprocessableEntity, respond.CodeMalformedScores, "Upstream score data is malformed", err)
	case errors.Is(err, competitionsuite.ErrFetch):
		respond.Failure(w, http.StatusBadGateway, respond.CodeUpstreamFailed, "Upstream request failed", err)
	case errors.Is(err, seen.ErrStorage):
		respond.StoreUnavailable(w, err)
	default:
		respond.Failure(w, http.StatusInternalServerError, respond.CodeInternal, "Unexpected error", err)
	}
}
