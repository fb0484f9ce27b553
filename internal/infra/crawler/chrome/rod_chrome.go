package chrome

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/Lbugz/PubCo-Live-sub004/internal/config"
	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/types"
)

const scrollStepPixels = 1200

type rodBrowser struct {
	browser    *rod.Browser
	page       *rod.Page
	router     *rod.HijackRouter
	navTimeout time.Duration
	logger     *log.Logger
	closeOnce  sync.Once
}

func InitRodBrowser(cfg *config.Config, logger *log.Logger) (PlaylistBrowser, error) {
	l := launcher.New().
		Headless(cfg.Rod.Headless).
		Leakless(cfg.Rod.Leakless)
	if cfg.Rod.Bin != "" {
		l = l.Bin(cfg.Rod.Bin)
	}
	if cfg.Rod.NoSandbox {
		l = l.NoSandbox(true)
	}
	if cfg.Rod.DisableDevShmUsage {
		l = l.Set("disable-dev-shm-usage")
	}
	if cfg.Rod.UserAgent != "" {
		l = l.Set("user-agent", cfg.Rod.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch rod browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect rod browser: %w", err)
	}

	return &rodBrowser{
		browser:    browser,
		navTimeout: time.Duration(cfg.Scraper.NavigationTimeoutSeconds) * time.Second,
		logger:     logger,
	}, nil
}

func (rb *rodBrowser) Close() {
	rb.closeOnce.Do(func() {
		if rb.router != nil {
			if err := rb.router.Stop(); err != nil {
				rb.logger.Warn("stop hijack router", "err", err)
			}
		}
		if err := rb.browser.Close(); err != nil {
			rb.logger.Warn("close rod browser", "err", err)
		}
	})
}

func (rb *rodBrowser) SetCookies(cookies []model.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
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
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, p)
	}
	if err := rb.browser.SetCookies(params); err != nil {
		return fmt.Errorf("set %d cookies: %w", len(params), err)
	}
	return nil
}

func (rb *rodBrowser) Navigate(url string) error {
	err := rod.Try(func() {
		page := stealth.MustPage(rb.browser)
		rb.page = page

		timed := page.Timeout(rb.navTimeout)
		wait := timed.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
		timed.MustNavigate(url)
		wait()
		// wait returns without error on deadline; surface it as one.
		if ctxErr := timed.GetContext().Err(); ctxErr != nil {
			panic(ctxErr)
		}
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (rb *rodBrowser) CurrentURL() (string, error) {
	var resolved string
	err := rod.Try(func() {
		resolved = rb.page.MustInfo().URL
	})
	if err != nil {
		return "", fmt.Errorf("resolve page url: %w", err)
	}
	return resolved, nil
}

func (rb *rodBrowser) TryClick(selector string, wait, settle time.Duration) bool {
	err := rod.Try(func() {
		rb.page.Timeout(wait).MustElement(selector).MustWaitVisible().MustClick()
	})
	if err != nil {
		return false
	}
	time.Sleep(settle)
	return true
}

func (rb *rodBrowser) PerformScrolling(scrollTimes int, delay time.Duration) error {
	rb.logger.Debug("starting scroll loop", "ticks", scrollTimes, "delay", delay)

	for i := range scrollTimes {
		if err := rb.page.Mouse.Scroll(0, scrollStepPixels, 1); err != nil {
			return fmt.Errorf("scroll tick %d/%d: %w", i+1, scrollTimes, err)
		}
		time.Sleep(delay)
	}
	return nil
}

func (rb *rodBrowser) SetNetworkListener(urlPattern string, respChan chan<- types.NetworkResponse) {
	router := rb.browser.HijackRequests()
	router.MustAdd("*"+urlPattern+"*", func(hijack *rod.Hijack) {
		err := rod.Try(func() {
			hijack.MustLoadResponse()
			resp := types.NetworkResponse{
				RequestURL: hijack.Request.URL().String(),
				MimeType:   hijack.Response.Headers().Get("Content-Type"),
				Body:       []byte(hijack.Response.Body()),
			}
			select {
			case respChan <- resp:
			default:
				rb.logger.Debug("response channel full, dropping", "url", resp.RequestURL)
			}
		})
		if err != nil {
			rb.logger.Debug("load hijacked response", "err", err)
		}
	})
	go router.Run()
	rb.router = router
}
