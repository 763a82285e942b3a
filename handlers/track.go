package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"reelyseries/internal/clientctx"
	"reelyseries/models"
	"reelyseries/services/watchlist"
)

type clickTracker interface {
	TrackClick(scope string, in models.ClickInput) models.ClickEvent
	RecentClicks(scope string) []models.ClickEvent
}

var _ clickTracker = (*watchlist.Service)(nil)

// TrackHandler records "where to watch" clicks for debugging.
type TrackHandler struct {
	Service  clickTracker
	validate *validator.Validate
}

func NewTrackHandler(service clickTracker, v *validator.Validate) *TrackHandler {
	if v == nil {
		v = validator.New()
	}
	return &TrackHandler{Service: service, validate: v}
}

type ClicksResponse struct {
	Events []models.ClickEvent `json:"events"`
}

func (h *TrackHandler) Track(w http.ResponseWriter, r *http.Request) {
	var in models.ClickInput
	if !decodeAndValidate(w, r, h.validate, &in) {
		return
	}
	writeJSON(w, http.StatusCreated, h.Service.TrackClick(clientctx.GetClientID(r), in))
}

func (h *TrackHandler) Recent(w http.ResponseWriter, r *http.Request) {
	events := h.Service.RecentClicks(clientctx.GetClientID(r))
	if events == nil {
		events = []models.ClickEvent{}
	}
	writeJSON(w, http.StatusOK, ClicksResponse{Events: events})
}
