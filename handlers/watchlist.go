package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"reelyseries/internal/clientctx"
	"reelyseries/models"
	"reelyseries/services/watchlist"
)

// maxBodyBytes bounds JSON request bodies for the local store endpoints.
const maxBodyBytes = 16 << 10

type watchlistService interface {
	List(scope string) []models.WatchlistItem
	Filter(scope, query string) []models.WatchlistItem
	Add(scope string, in models.WatchlistUpsert) (models.WatchlistItem, bool)
	Remove(scope string, t models.MediaType, id int64) []models.WatchlistItem
	Contains(scope string, t models.MediaType, id int64) bool
}

var _ watchlistService = (*watchlist.Service)(nil)

type WatchlistHandler struct {
	Service  watchlistService
	validate *validator.Validate
}

func NewWatchlistHandler(service watchlistService, v *validator.Validate) *WatchlistHandler {
	if v == nil {
		v = validator.New()
	}
	return &WatchlistHandler{Service: service, validate: v}
}

type SavedResponse struct {
	Saved bool `json:"saved"`
}

type WatchlistResponse struct {
	Items []models.WatchlistItem `json:"items"`
}

// List returns the saved items, optionally narrowed by a fuzzy ?q= filter.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := clientctx.GetClientID(r)
	var items []models.WatchlistItem
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		items = h.Service.Filter(scope, q)
	} else {
		items = h.Service.List(scope)
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}
	writeJSON(w, http.StatusOK, WatchlistResponse{Items: items})
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in models.WatchlistUpsert
	if !decodeAndValidate(w, r, h.validate, &in) {
		return
	}

	item, added := h.Service.Add(clientctx.GetClientID(r), in)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, item)
}

func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := mediaRef(w, r)
	if !ok {
		return
	}
	items := h.Service.Remove(clientctx.GetClientID(r), kind, id)
	if items == nil {
		items = []models.WatchlistItem{}
	}
	writeJSON(w, http.StatusOK, WatchlistResponse{Items: items})
}

func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := mediaRef(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SavedResponse{Saved: h.Service.Contains(clientctx.GetClientID(r), kind, id)})
}

// mediaRef reads the {type}/{id} path variables.
func mediaRef(w http.ResponseWriter, r *http.Request) (models.MediaType, int64, bool) {
	vars := mux.Vars(r)
	kind, ok := models.ParseMediaType(strings.ToLower(vars["type"]))
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return "", 0, false
	}
	id, ok := parseID(vars["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return "", 0, false
	}
	return kind, id, true
}

// decodeAndValidate reads a strict JSON body into dest and runs struct tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := v.StructCtx(r.Context(), dest); err != nil {
		log.Printf("[server] validation failed: %v", err)
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}
