package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/albapepper/dci-recap/internal/api/respond"
	"github.com/albapepper/dci-recap/internal/poll"
)

// RunPoll triggers one poll cycle and waits for it. The cycle is detached
// from the request so a client hanging up cannot abort it halfway.
// @Summary Run a poll cycle
// @Description Runs one detect-parse-publish-record cycle now. Returns 409 if a cycle is already running.
// @Tags poll
// @Produce json
// @Success 200 {object} poll.Result
// @Failure 409 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /poll [post]
func (h *Handler) RunPoll(w http.ResponseWriter, r *http.Request) {
	res, err := h.runner.Run(context.WithoutCancel(r.Context()))
	if errors.Is(err, poll.ErrCycleInProgress) {
		respond.Conflict(w, respond.CodeCycleInProgress, "A poll cycle is already running")
		return
	}
	// Listings carry a seen flag that the cycle may have changed.
	h.cache.InvalidatePrefix(eventsKeyPrefix)
	if err != nil {
		respond.Failure(w, http.StatusBadGateway, respond.CodeCycleFailed, "Poll cycle failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// LastPoll returns the most recent cycle's result.
// @Summary Last poll result
// @Description Returns the result of the most recent cycle, or 404 before the first one.
// @Tags poll
// @Produce json
// @Success 200 {object} poll.Result
// @Failure 404 {object} respond.ErrorResponse
// @Router /poll/last [get]
func (h *Handler) LastPoll(w http.ResponseWriter, r *http.Request) {
	last := h.runner.Last()
	if last.Result == nil {
		respond.NotFound(w, respond.CodeNoRuns, "No poll cycle has run yet")
		return
	}
	respond.JSON(w, http.StatusOK, last.Result)
}
