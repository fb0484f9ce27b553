package chrome

import (
	"time"

	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/types"
)

// PlaylistBrowser drives one isolated browser instance for the lifetime
// of a single scrape request. Implementations exist for chromedp and
// rod; both must release the underlying process in Close on every path.
type PlaylistBrowser interface {
	// SetCookies injects the caller-supplied session cookies. Must be
	// called before Navigate.
	SetCookies(cookies []model.Cookie) error
	// Navigate loads the URL and blocks until the page reaches a
	// network-idle condition, bounded by the configured timeout.
	Navigate(url string) error
	// CurrentURL reports the resolved URL after navigation, used to
	// detect login redirects.
	CurrentURL() (string, error)
	// TryClick waits up to wait for the selector to appear, clicks it
	// and sleeps settle. Reports whether a click happened.
	TryClick(selector string, wait, settle time.Duration) bool
	// PerformScrolling issues scrollTimes scroll ticks with a fixed
	// delay between each, to trigger further lazy-loaded batches.
	PerformScrolling(scrollTimes int, delay time.Duration) error
	// SetNetworkListener forwards every response whose URL contains
	// urlPattern onto respChan. Sends never block; a full channel drops.
	SetNetworkListener(urlPattern string, respChan chan<- types.NetworkResponse)
	Close()
}
