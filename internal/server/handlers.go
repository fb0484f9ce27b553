package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
	"github.com/Lbugz/PubCo-Live-sub004/internal/service/scrape"
)

const serviceName = "playlist-scraper"

type scrapeHandler struct {
	svc    scrape.Service
	logger *log.Logger
}

func (h *scrapeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req model.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &model.ScrapeResult{
			Success: false,
			Tracks:  []model.Track{},
			Error:   "invalid JSON body: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.PlaylistURL) == "" {
		writeJSON(w, http.StatusBadRequest, &model.ScrapeResult{
			Success: false,
			Tracks:  []model.Track{},
			Error:   scrape.ErrMissingPlaylistURL.Error(),
		})
		return
	}

	result := h.svc.Scrape(r.Context(), &req)
	if !result.Success {
		h.logger.Error("scrape failed", "playlist_url", req.PlaylistURL, "err", result.Error)
	}
	writeJSON(w, statusFor(result), result)
}

func statusFor(result *model.ScrapeResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case errors.Is(result.Err, scrape.ErrMissingPlaylistURL):
		return http.StatusBadRequest
	case errors.Is(result.Err, scrape.ErrAuthRequired):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

type healthHandler struct{}

func (healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
