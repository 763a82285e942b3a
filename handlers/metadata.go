package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"reelyseries/internal/clientctx"
	"reelyseries/models"
	metadatapkg "reelyseries/services/metadata"
)

//go:generate mockgen -source=metadata.go -destination=mock_metadata_test.go -package=handlers

type metadataService interface {
	Browse(context.Context, models.MediaType, models.Category, int, models.LocaleContext) (models.BrowseResult, error)
	Top(context.Context, models.MediaType, models.LocaleContext, int) ([]models.MediaItem, error)
	Search(context.Context, string, int, models.LocaleContext) (models.BrowseResult, error)
	MediaDetails(context.Context, models.MediaType, int64, models.LocaleContext) (models.MediaDetails, error)
	PersonDetails(context.Context, int64, models.LocaleContext) (models.Person, error)
	PersonCredits(context.Context, int64, models.LocaleContext) ([]models.MediaItem, error)
}

var _ metadataService = (*metadatapkg.Service)(nil)

const (
	defaultTopLimit = 10
	maxTopLimit     = 20

	surfaceBrowse  = "browse"
	surfaceSearch  = "search"
	surfaceDetails = "details"
)

type MetadataHandler struct {
	Service metadataService
	guard   *queryGuard
}

func NewMetadataHandler(s metadataService) *MetadataHandler {
	return &MetadataHandler{Service: s, guard: newQueryGuard(defaultGuardSize)}
}

// PageResponse is one page of browse or search results.
type PageResponse struct {
	Items      []models.MediaItem `json:"items"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

// ItemsResponse wraps an unpaginated item list.
type ItemsResponse struct {
	Items []models.MediaItem `json:"items"`
}

func (h *MetadataHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, ok := models.ParseMediaType(strings.ToLower(strings.TrimSpace(q.Get("type"))))
	if !ok {
		writeError(w, http.StatusBadRequest, "type must be movie or tv")
		return
	}
	category := models.Category(strings.TrimSpace(q.Get("category")))
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	locale, ok := requireLocale(w, r)
	if !ok {
		return
	}
	page := models.ClampPage(parsePage(q.Get("page")))

	ctx, finish := h.guard.begin(r.Context(), clientctx.GetClientID(r), surfaceBrowse)
	res, err := h.Service.Browse(ctx, kind, category, page, locale)
	if finish() {
		writeSuperseded(w)
		return
	}
	if err != nil {
		writeServiceError(w, "browse", err)
		return
	}
	writeJSON(w, http.StatusOK, PageResponse{Items: nonNilItems(res.Items), Page: page, TotalPages: res.TotalPages})
}

func (h *MetadataHandler) Top(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, ok := models.ParseMediaType(strings.ToLower(strings.TrimSpace(q.Get("type"))))
	if !ok {
		writeError(w, http.StatusBadRequest, "type must be movie or tv")
		return
	}
	locale, ok := requireLocale(w, r)
	if !ok {
		return
	}
	limit := defaultTopLimit
	if raw := q.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = min(parsed, maxTopLimit)
		}
	}

	items, err := h.Service.Top(r.Context(), kind, locale, limit)
	if err != nil {
		writeServiceError(w, "top", err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Items: nonNilItems(items)})
}

func (h *MetadataHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	locale, ok := requireLocale(w, r)
	if !ok {
		return
	}
	query := strings.TrimSpace(q.Get("q"))
	page := models.ClampPage(parsePage(q.Get("page")))
	if query == "" {
		writeJSON(w, http.StatusOK, PageResponse{Items: []models.MediaItem{}, Page: page, TotalPages: 1})
		return
	}

	ctx, finish := h.guard.begin(r.Context(), clientctx.GetClientID(r), surfaceSearch)
	res, err := h.Service.Search(ctx, query, page, locale)
	if finish() {
		writeSuperseded(w)
		return
	}
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, PageResponse{Items: nonNilItems(res.Items), Page: page, TotalPages: res.TotalPages})
}

func (h *MetadataHandler) Details(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := models.ParseMediaType(strings.ToLower(vars["type"]))
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, ok := parseID(vars["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	locale, ok := requireLocale(w, r)
	if !ok {
		return
	}

	ctx, finish := h.guard.begin(r.Context(), clientctx.GetClientID(r), surfaceDetails)
	details, err := h.Service.MediaDetails(ctx, kind, id, locale)
	if finish() {
		writeSuperseded(w)
		return
	}
	if err != nil {
		writeServiceError(w, "details", err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *MetadataHandler) Person(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	locale, ok := requirePersonLocale(w, r)
	if !ok {
		return
	}

	person, err := h.Service.PersonDetails(r.Context(), id, locale)
	if err != nil {
		writeServiceError(w, "person", err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *MetadataHandler) PersonCredits(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	locale, ok := requirePersonLocale(w, r)
	if !ok {
		return
	}

	items, err := h.Service.PersonCredits(r.Context(), id, locale)
	if err != nil {
		writeServiceError(w, "person credits", err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Items: nonNilItems(items)})
}

// requireLocale parses the mandatory language and region parameters.
func requireLocale(w http.ResponseWriter, r *http.Request) (models.LocaleContext, bool) {
	q := r.URL.Query()
	locale, err := models.ParseLocale(q.Get("language"), q.Get("region"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.LocaleContext{}, false
	}
	return locale, true
}

// requirePersonLocale only needs a language; person pages are not regional.
func requirePersonLocale(w http.ResponseWriter, r *http.Request) (models.LocaleContext, bool) {
	q := r.URL.Query()
	region := q.Get("region")
	if strings.TrimSpace(region) == "" {
		region = models.CanonicalRegion
	}
	locale, err := models.ParseLocale(q.Get("language"), region)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return models.LocaleContext{}, false
	}
	return locale, true
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return page
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func nonNilItems(items []models.MediaItem) []models.MediaItem {
	if items == nil {
		return []models.MediaItem{}
	}
	return items
}

// writeServiceError maps service errors to the single inline failure shown
// in the UI. Details stay in the log.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var (
		cfgErr *metadatapkg.ConfigError
		upErr  *metadatapkg.UpstreamError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusServiceUnavailable
	case errors.As(err, &upErr):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this.
		status = http.StatusRequestTimeout
	}
	log.Printf("[metadata] %s failed (%d): %v", op, status, err)
	writeError(w, status, "failed to load")
}

func writeSuperseded(w http.ResponseWriter) {
	writeError(w, http.StatusConflict, "superseded")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}
