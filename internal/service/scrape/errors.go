package scrape

import "errors"

var (
	// ErrMissingPlaylistURL means the request carried no playlist URL;
	// no browser is acquired in that case.
	ErrMissingPlaylistURL = errors.New("Missing playlistUrl in request body")

	// ErrAuthRequired means the page resolved to a login redirect; the
	// supplied session cookies are absent or stale.
	ErrAuthRequired = errors.New("playlist page redirected to login; login required with valid session cookies")
)
