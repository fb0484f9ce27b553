package scrape

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/chrome"
)

// consentSelectors are tried in order; the first one that shows up gets
// clicked and the search stops. OneTrust first, then the site's own
// cookie dialog, then generic accept controls.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button[data-testid='cookie-policy-manage-dialog-accept-button']",
	"button[aria-label='Accept cookies']",
	"button[id*='accept']",
}

// dismissConsent runs exactly once, after navigation and before
// pagination. A page without a banner is a normal outcome, not an error.
func (s *service) dismissConsent(browser chrome.PlaylistBrowser, logger *log.Logger) {
	wait := time.Duration(s.cfg.Scraper.ConsentWaitSeconds) * time.Second
	settle := time.Duration(s.cfg.Scraper.ConsentSettleSeconds) * time.Second

	for _, selector := range consentSelectors {
		if browser.TryClick(selector, wait, settle) {
			logger.Debug("consent banner dismissed", "selector", selector)
			return
		}
	}
	logger.Debug("no consent banner found")
}
