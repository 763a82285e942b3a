package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"reelyseries/config"
	"reelyseries/models"
)

// Version can be injected with -ldflags "-X reelyseries/handlers.Version=...".
// When empty it is read from version.txt.
var (
	Version     string
	versionOnce sync.Once
)

// VersionHandler also hands the SPA its starting locale. Queries still
// carry an explicit locale; this only seeds the picker.
type VersionHandler struct {
	defaults models.LocaleContext
}

type VersionResponse struct {
	Version       string               `json:"version"`
	DefaultLocale models.LocaleContext `json:"defaultLocale"`
}

func NewVersionHandler(locale config.LocaleSettings) *VersionHandler {
	defaults, err := models.ParseLocale(locale.DefaultLanguage, locale.DefaultRegion)
	if err != nil {
		log.Printf("[server] default locale %s/%s rejected, using %s/%s: %v",
			locale.DefaultLanguage, locale.DefaultRegion, models.CanonicalLanguage, models.CanonicalRegion, err)
		defaults = models.LocaleContext{Language: models.CanonicalLanguage, Region: models.CanonicalRegion}
	}
	return &VersionHandler{defaults: defaults}
}

// GetVersion resolves the running version once.
func GetVersion() string {
	versionOnce.Do(func() {
		if strings.TrimSpace(Version) != "" {
			Version = strings.TrimSpace(Version)
			return
		}
		for _, path := range []string{"version.txt", "/app/version.txt"} {
			data, err := os.ReadFile(path)
			if err == nil {
				Version = strings.TrimSpace(string(data))
				return
			}
		}
		Version = "dev"
	})
	return Version
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: GetVersion(), DefaultLocale: h.defaults})
}

// Health is the liveness probe.
func (h *VersionHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
