package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lbugz/PubCo-Live-sub004/internal/config"
	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
	"github.com/Lbugz/PubCo-Live-sub004/internal/service/scrape"
)

type stubService struct {
	result  *model.ScrapeResult
	lastReq *model.ScrapeRequest
	calls   int
}

func (s *stubService) Scrape(_ context.Context, req *model.ScrapeRequest) *model.ScrapeResult {
	s.calls++
	s.lastReq = req
	return s.result
}

func newTestServer(svc scrape.Service) http.Handler {
	router := NewRouter()
	router.Use(RequestID(), AccessLog(log.New(io.Discard)))
	router.Handle(http.MethodPost, "/scrape-playlist", &scrapeHandler{svc: svc, logger: log.New(io.Discard)})
	router.Handle(http.MethodGet, "/health", healthHandler{})
	return router
}

func decodeResult(t *testing.T, body io.Reader) model.ScrapeResult {
	t.Helper()
	var result model.ScrapeResult
	require.NoError(t, json.NewDecoder(body).Decode(&result))
	return result
}

func TestScrapePlaylistMissingURL(t *testing.T) {
	svc := &stubService{}
	handler := newTestServer(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape-playlist", strings.NewReader(`{"cookies":[]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	result := decodeResult(t, rec.Body)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Missing playlistUrl")
	assert.Zero(t, svc.calls, "service must not run without a playlist url")
}

func TestScrapePlaylistInvalidJSON(t *testing.T) {
	handler := newTestServer(&stubService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape-playlist", strings.NewReader(`{notjson`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapePlaylistAuthRequired(t *testing.T) {
	svc := &stubService{result: &model.ScrapeResult{
		Success: false,
		Tracks:  []model.Track{},
		Error:   scrape.ErrAuthRequired.Error(),
		Err:     scrape.ErrAuthRequired,
	}}
	handler := newTestServer(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape-playlist",
		strings.NewReader(`{"playlistUrl":"https://open.spotify.com/playlist/x"}`)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	result := decodeResult(t, rec.Body)
	assert.False(t, result.Success)
	assert.Empty(t, result.Tracks)
	assert.Zero(t, result.TotalCaptured)
}

func TestScrapePlaylistInternalError(t *testing.T) {
	svc := &stubService{result: &model.ScrapeResult{
		Success: false,
		Tracks:  []model.Track{},
		Error:   "navigation failed: timeout",
		Err:     errors.New("navigation failed: timeout"),
	}}
	handler := newTestServer(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape-playlist",
		strings.NewReader(`{"playlistUrl":"https://open.spotify.com/playlist/x"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScrapePlaylistSuccess(t *testing.T) {
	svc := &stubService{result: &model.ScrapeResult{
		Success:       true,
		Tracks:        []model.Track{{TrackID: "1", Name: "One", Artists: []string{"A"}}},
		TotalCaptured: 1,
		Method:        "network-capture",
	}}
	handler := newTestServer(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape-playlist",
		strings.NewReader(`{"playlistUrl":"https://open.spotify.com/playlist/x","cookies":[{"name":"sp_dc","value":"v","domain":".spotify.com"}]}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec.Body)
	assert.True(t, result.Success)
	assert.Equal(t, "network-capture", result.Method)
	assert.Equal(t, 1, result.TotalCaptured)

	require.NotNil(t, svc.lastReq)
	assert.Len(t, svc.lastReq.Cookies, 1)
}

func TestScrapePlaylistMethodNotAllowed(t *testing.T) {
	handler := newTestServer(&stubService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scrape-playlist", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	handler := newTestServer(&stubService{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, serviceName, payload["service"])
}

func TestServerNewWiresRoutes(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Addr = ":0"
	srv := New(cfg, log.New(io.Discard), &stubService{result: &model.ScrapeResult{Success: true, Tracks: []model.Track{}}})

	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
