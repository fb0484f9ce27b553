package entity

import (
	"encoding/json"
	"time"

	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
)

const trackURLTemplate = "https://open.spotify.com/track/"

// PlaylistItem is one raw fragment captured off the wire. The playlist
// API usually nests the track under an added-item wrapper; some
// responses carry the track object directly, so the RawTrack fields are
// inlined as a fallback and resolve() picks the innermost track shape.
type PlaylistItem struct {
	AddedAt string    `json:"added_at"`
	Track   *RawTrack `json:"track"`
	RawTrack
}

type RawTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DurationMs   *int            `json:"duration_ms"`
	Popularity   *int            `json:"popularity"`
	Album        *rawAlbum       `json:"album"`
	Artists      []rawArtist     `json:"artists"`
	ExternalIDs  rawExternalIDs  `json:"external_ids"`
	ExternalURLs rawExternalURLs `json:"external_urls"`
}

type rawAlbum struct {
	Name string `json:"name"`
}

type rawArtist struct {
	Name string `json:"name"`
}

type rawExternalIDs struct {
	ISRC string `json:"isrc"`
}

type rawExternalURLs struct {
	Spotify string `json:"spotify"`
}

func ParsePlaylistItem(raw json.RawMessage) (*PlaylistItem, error) {
	var item PlaylistItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (pi *PlaylistItem) resolve() *RawTrack {
	if pi.Track != nil {
		return pi.Track
	}
	return &pi.RawTrack
}

// ToTrack maps the raw fragment to the canonical record. Returns nil
// when the resolved track has no usable name; such fragments are
// dropped rather than produced half-empty.
func (pi *PlaylistItem) ToTrack() *model.Track {
	rt := pi.resolve()
	if rt.Name == "" {
		return nil
	}

	track := &model.Track{
		TrackID:    rt.ID,
		Name:       rt.Name,
		Artists:    make([]string, 0, len(rt.Artists)),
		AddedAt:    normalizeAddedAt(pi.AddedAt),
		Popularity: rt.Popularity,
		DurationMs: rt.DurationMs,
	}

	for _, artist := range rt.Artists {
		if artist.Name == "" {
			continue
		}
		track.Artists = append(track.Artists, artist.Name)
	}

	if rt.ExternalIDs.ISRC != "" {
		isrc := rt.ExternalIDs.ISRC
		track.ISRC = &isrc
	}
	if rt.Album != nil && rt.Album.Name != "" {
		album := rt.Album.Name
		track.Album = &album
	}

	if rt.ExternalURLs.Spotify != "" {
		track.SpotifyURL = rt.ExternalURLs.Spotify
	} else {
		track.SpotifyURL = trackURLTemplate + rt.ID
	}

	return track
}

func normalizeAddedAt(addedAt string) string {
	if addedAt != "" {
		if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}
