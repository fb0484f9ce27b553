// Package scrape sequences one browser-driven playlist capture:
// cookies, navigation, consent dismissal, concurrent network capture
// under a blind scroll loop, then normalization. Every failure mode is
// folded into the returned ScrapeResult; nothing escapes as an error.
package scrape

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/Lbugz/PubCo-Live-sub004/internal/config"
	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/entity"
	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/chrome"
	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/types"
	"github.com/Lbugz/PubCo-Live-sub004/internal/service/capture"
)

// listenPattern pre-filters the network listener; the capture layer
// still applies the full host and content-type checks.
const listenPattern = "spotify"

// authRedirectMarkers flag a resolved post-navigation URL as a login
// bounce.
var authRedirectMarkers = []string{"accounts.spotify.com", "/login", "/authorize"}

// BrowserFactory yields one isolated browser per request. Injected so
// tests can count resource lifecycles without a live browser.
type BrowserFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (chrome.PlaylistBrowser, error)

type Service interface {
	Scrape(ctx context.Context, req *model.ScrapeRequest) *model.ScrapeResult
}

type service struct {
	cfg        *config.Config
	logger     *log.Logger
	newBrowser BrowserFactory
}

func InitService(cfg *config.Config, logger *log.Logger, newBrowser BrowserFactory) Service {
	return &service{
		cfg:        cfg,
		logger:     logger,
		newBrowser: newBrowser,
	}
}

func (s *service) Scrape(ctx context.Context, req *model.ScrapeRequest) *model.ScrapeResult {
	start := time.Now()
	logger := s.logger.With("scrape_id", uuid.NewString())

	if req == nil || strings.TrimSpace(req.PlaylistURL) == "" {
		return s.failure(start, ErrMissingPlaylistURL)
	}
	logger = logger.With("playlist_url", req.PlaylistURL)

	browser, err := s.newBrowser(ctx, s.cfg, logger)
	if err != nil {
		return s.failure(start, fmt.Errorf("launch browser: %w", err))
	}
	// Release on every exit path; implementations log their own close
	// failures rather than escalating them.
	defer browser.Close()

	if len(req.Cookies) > 0 {
		logger.Info("injecting session cookies", "count", len(req.Cookies))
		if err := browser.SetCookies(req.Cookies); err != nil {
			return s.failure(start, fmt.Errorf("inject session cookies: %w", err))
		}
	}

	// The listener must be live before navigation: the initial document
	// load already provokes the offset-0 batch.
	collector := capture.New(logger)
	respChan := make(chan types.NetworkResponse, s.cfg.Scraper.RespChanSize)
	browser.SetNetworkListener(listenPattern, respChan)

	drainCtx, stopDrain := context.WithCancel(ctx)
	defer stopDrain()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			select {
			case resp := <-respChan:
				collector.HandleResponse(resp)
			case <-drainCtx.Done():
				return
			}
		}
	}()

	logger.Info("navigating to playlist")
	if err := browser.Navigate(req.PlaylistURL); err != nil {
		return s.failure(start, fmt.Errorf("navigation failed: %w", err))
	}

	resolved, err := browser.CurrentURL()
	if err != nil {
		return s.failure(start, fmt.Errorf("resolve post-navigation url: %w", err))
	}
	if isAuthRedirect(resolved) {
		logger.Warn("login redirect detected", "resolved_url", resolved)
		return s.failure(start, ErrAuthRequired)
	}

	s.dismissConsent(browser, logger)

	scrollErr := browser.PerformScrolling(
		s.cfg.Scraper.ScrollTimes,
		time.Duration(s.cfg.Scraper.ScrollDelayMillis)*time.Millisecond,
	)
	// Final settle: late responses provoked by the last ticks.
	time.Sleep(time.Duration(s.cfg.Scraper.SettleSeconds) * time.Second)

	stopDrain()
	<-drained
flush:
	for {
		select {
		case resp := <-respChan:
			collector.HandleResponse(resp)
		default:
			break flush
		}
	}

	if scrollErr != nil {
		return s.failure(start, fmt.Errorf("pagination failed: %w", scrollErr))
	}

	fragments := collector.Snapshot()
	tracks := entity.NormalizeTracks(fragments)
	logger.Info("scrape complete",
		"fragments", len(fragments),
		"tracks", len(tracks),
		"offsets", len(collector.Offsets()),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return &model.ScrapeResult{
		Success:         true,
		Tracks:          tracks,
		TotalCaptured:   len(tracks),
		Method:          "network-capture",
		DurationSeconds: time.Since(start).Seconds(),
		MemoryMB:        s.memoryMB(),
	}
}

func (s *service) failure(start time.Time, err error) *model.ScrapeResult {
	return &model.ScrapeResult{
		Success:         false,
		Tracks:          []model.Track{},
		TotalCaptured:   0,
		Error:           err.Error(),
		Err:             err,
		DurationSeconds: time.Since(start).Seconds(),
		MemoryMB:        s.memoryMB(),
	}
}

func isAuthRedirect(resolved string) bool {
	for _, marker := range authRedirectMarkers {
		if strings.Contains(resolved, marker) {
			return true
		}
	}
	return false
}

// memoryMB reports the process RSS for result diagnostics; failures
// here are not worth failing a scrape over.
func (s *service) memoryMB() float64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.logger.Debug("process handle", "err", err)
		return 0
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return float64(mem.RSS) / 1024.0 / 1024.0
}
