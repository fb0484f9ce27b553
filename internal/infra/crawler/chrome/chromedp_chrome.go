package chrome

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Lbugz/PubCo-Live-sub004/internal/config"
	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/types"
)

// processSemSize caps concurrent GetResponseBody round-trips so a burst
// of responses cannot pile up unbounded CDP calls.
const processSemSize = 5

type cachedResponse struct {
	url      string
	mimeType string
}

type chromedpBrowser struct {
	requestCache sync.Map
	processSem   chan struct{}
	allocCancel  context.CancelFunc
	pageCtx      context.Context
	pageCancel   context.CancelFunc
	navTimeout   time.Duration
	logger       *log.Logger
	closeOnce    sync.Once
}

func InitChromedpBrowser(ctx context.Context, cfg *config.Config, logger *log.Logger) (PlaylistBrowser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
	)
	if cfg.Chromedp.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Chromedp.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	pageCtx, pageCancel := chromedp.NewContext(allocCtx)

	// Spawning the browser process up front keeps launch failures out
	// of Navigate.
	if err := chromedp.Run(pageCtx, network.Enable()); err != nil {
		pageCancel()
		allocCancel()
		return nil, fmt.Errorf("launch chromedp browser: %w", err)
	}

	return &chromedpBrowser{
		processSem:  make(chan struct{}, processSemSize),
		allocCancel: allocCancel,
		pageCtx:     pageCtx,
		pageCancel:  pageCancel,
		navTimeout:  time.Duration(cfg.Scraper.NavigationTimeoutSeconds) * time.Second,
		logger:      logger,
	}, nil
}

func (cb *chromedpBrowser) Close() {
	cb.closeOnce.Do(func() {
		cb.pageCancel()
		cb.allocCancel()
	})
}

func (cb *chromedpBrowser) SetCookies(cookies []model.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if p.Path == "" {
			p.Path = "/"
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &expires
		}
		params = append(params, p)
	}
	if err := chromedp.Run(cb.pageCtx, network.SetCookies(params)); err != nil {
		return fmt.Errorf("set %d cookies: %w", len(params), err)
	}
	return nil
}

func (cb *chromedpBrowser) Navigate(url string) error {
	navCtx, cancel := context.WithTimeout(cb.pageCtx, cb.navTimeout)
	defer cancel()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(navCtx, func(ev any) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	if err := chromedp.Run(navCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(url),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	select {
	case <-idle:
		return nil
	case <-navCtx.Done():
		return fmt.Errorf("waiting for network idle on %s: %w", url, navCtx.Err())
	}
}

func (cb *chromedpBrowser) CurrentURL() (string, error) {
	var resolved string
	if err := chromedp.Run(cb.pageCtx, chromedp.Location(&resolved)); err != nil {
		return "", fmt.Errorf("resolve page url: %w", err)
	}
	return resolved, nil
}

func (cb *chromedpBrowser) TryClick(selector string, wait, settle time.Duration) bool {
	waitCtx, cancel := context.WithTimeout(cb.pageCtx, wait)
	defer cancel()

	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return false
	}
	_ = chromedp.Run(cb.pageCtx, chromedp.Sleep(settle))
	return true
}

func (cb *chromedpBrowser) PerformScrolling(scrollTimes int, delay time.Duration) error {
	cb.logger.Debug("starting scroll loop", "ticks", scrollTimes, "delay", delay)

	// The playlist list is virtualized; a wheel event alongside the
	// scroll keeps its viewport observer firing in both layouts.
	js := `window.scrollTo({top: document.body.scrollHeight, behavior: 'smooth'});
window.dispatchEvent(new WheelEvent('wheel', {deltaY: 1000, bubbles: true}));`

	for i := range scrollTimes {
		if err := chromedp.Run(cb.pageCtx,
			chromedp.Evaluate(js, nil),
			chromedp.Sleep(delay),
		); err != nil {
			return fmt.Errorf("scroll tick %d/%d: %w", i+1, scrollTimes, err)
		}
	}
	return nil
}

func (cb *chromedpBrowser) SetNetworkListener(urlPattern string, respChan chan<- types.NetworkResponse) {
	chromedp.ListenTarget(cb.pageCtx, func(ev any) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if strings.Contains(ev.Response.URL, urlPattern) {
				cb.requestCache.Store(ev.RequestID, cachedResponse{
					url:      ev.Response.URL,
					mimeType: ev.Response.MimeType,
				})
			}
		case *network.EventLoadingFinished:
			// The body is only retrievable once loading finished.
			if cached, ok := cb.requestCache.LoadAndDelete(ev.RequestID); ok {
				go cb.fetchResponseBody(ev.RequestID, cached.(cachedResponse), respChan)
			}
		}
	})
}

func (cb *chromedpBrowser) fetchResponseBody(requestID network.RequestID, cached cachedResponse, respChan chan<- types.NetworkResponse) {
	select {
	case cb.processSem <- struct{}{}:
	default:
		cb.logger.Debug("body fetch cap reached, dropping response", "url", cached.url)
		return
	}
	defer func() { <-cb.processSem }()

	c := chromedp.FromContext(cb.pageCtx)
	execCtx := cdp.WithExecutor(cb.pageCtx, c.Target)
	body, err := network.GetResponseBody(requestID).Do(execCtx)
	if err != nil {
		// Bodies for redirects and cache hits are routinely gone.
		cb.logger.Debug("get response body", "url", cached.url, "err", err)
		return
	}

	select {
	case respChan <- types.NetworkResponse{RequestURL: cached.url, MimeType: cached.mimeType, Body: body}:
	default:
		cb.logger.Debug("response channel full, dropping", "url", cached.url)
	}
}
