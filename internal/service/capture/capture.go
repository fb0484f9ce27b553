// Package capture accumulates playlist item batches off the browser's
// network event stream. One Capture instance lives and dies with one
// scrape request.
package capture

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/types"
)

// hostAllowlist is the cheap reject: responses from anywhere else are
// dropped without touching the body.
var hostAllowlist = []string{"spotify.com", "spclient"}

// offsetParams are checked in order against the originating request URL;
// neither present means offset 0.
var offsetParams = []string{"offset", "start"}

// listEnvelope covers the known nesting shapes of the playlist API: a
// top-level item list, a tracks-wrapped list, or a content-wrapped list.
type listEnvelope struct {
	Items   []json.RawMessage `json:"items"`
	Tracks  *listEnvelope     `json:"tracks"`
	Content *listEnvelope     `json:"content"`
}

// Capture owns the offset ledger and the accumulated raw fragments.
// CDP body fetches complete on their own goroutines, so both are
// guarded by a mutex.
type Capture struct {
	mu        sync.Mutex
	offsets   map[int64]struct{}
	order     []int64
	fragments []json.RawMessage
	logger    *log.Logger
}

func New(logger *log.Logger) *Capture {
	return &Capture{
		offsets: make(map[int64]struct{}),
		logger:  logger,
	}
}

// HandleResponse inspects one wire response and, if it carries a new
// batch of playlist items, appends them in arrival order. Parse and
// shape failures are swallowed: unrelated traffic is expected noise.
func (c *Capture) HandleResponse(resp types.NetworkResponse) {
	if !c.wants(resp) {
		return
	}

	var env listEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return
	}
	items := locateItems(&env)
	if len(items) == 0 {
		return
	}

	offset := extractOffset(resp.RequestURL)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.offsets[offset]; seen {
		c.logger.Debug("duplicate offset batch discarded", "offset", offset, "items", len(items))
		return
	}
	c.offsets[offset] = struct{}{}
	c.order = append(c.order, offset)
	c.fragments = append(c.fragments, items...)
	c.logger.Debug("captured batch", "offset", offset, "items", len(items), "total", len(c.fragments))
}

// Snapshot hands off the accumulated fragments for normalization.
func (c *Capture) Snapshot() []json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]json.RawMessage, len(c.fragments))
	copy(out, c.fragments)
	return out
}

// Offsets reports the accepted offsets in acceptance order.
func (c *Capture) Offsets() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Capture) wants(resp types.NetworkResponse) bool {
	u, err := url.Parse(resp.RequestURL)
	if err != nil {
		return false
	}
	allowed := false
	for _, sub := range hostAllowlist {
		if strings.Contains(u.Host, sub) {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	return strings.Contains(strings.ToLower(resp.MimeType), "json")
}

func locateItems(env *listEnvelope) []json.RawMessage {
	if len(env.Items) > 0 {
		return env.Items
	}
	if env.Tracks != nil && len(env.Tracks.Items) > 0 {
		return env.Tracks.Items
	}
	if env.Content != nil && len(env.Content.Items) > 0 {
		return env.Content.Items
	}
	return nil
}

func extractOffset(rawURL string) int64 {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	query := u.Query()
	for _, name := range offsetParams {
		if v := query.Get(name); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}
