package model

// Cookie is an opaque session cookie record supplied by the caller.
// This service never authenticates on its own.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
}

type ScrapeRequest struct {
	PlaylistURL string   `json:"playlistUrl"`
	Cookies     []Cookie `json:"cookies"`
}

// ScrapeResult is the single public outcome of a scrape. Failures never
// escape as errors; they are folded into Success=false plus Error.
type ScrapeResult struct {
	Success         bool    `json:"success"`
	Tracks          []Track `json:"tracks"`
	TotalCaptured   int     `json:"totalCaptured"`
	Method          string  `json:"method,omitempty"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration"`
	MemoryMB        float64 `json:"memoryUsed"`

	// Err keeps the underlying failure for status mapping at the HTTP
	// boundary; the wire carries only its message in Error.
	Err error `json:"-"`
}
