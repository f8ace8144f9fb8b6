package handler

import (
	"net/http"

	"github.com/albapepper/dci-recap/internal/api/respond"
	"github.com/albapepper/dci-recap/internal/seen"
)

// SeenResponse is the body of GET /seen.
type SeenResponse struct {
	Count   int          `json:"count"`
	Entries []seen.Entry `json:"entries"`
}

// ListSeen returns the seen record in insertion order.
// @Summary List seen events
// @Description Returns every event already handled, oldest first.
// @Tags seen
// @Produce json
// @Success 200 {object} SeenResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /seen [get]
func (h *Handler) ListSeen(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.Error("load seen record", "error", err)
		respond.StoreUnavailable(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, SeenResponse{
		Count:   record.Len(),
		Entries: record.Entries(),
	})
}
