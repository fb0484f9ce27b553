package model

// Track is the canonical record handed to downstream lead discovery.
// Name is always non-empty; normalization drops anything nameless.
type Track struct {
	TrackID    string   `json:"trackId"`
	ISRC       *string  `json:"isrc"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      *string  `json:"album"`
	AddedAt    string   `json:"addedAt"`
	Popularity *int     `json:"popularity"`
	DurationMs *int     `json:"durationMs"`
	SpotifyURL string   `json:"spotifyUrl"`
}
