package entity

import (
	"encoding/json"

	"github.com/Lbugz/PubCo-Live-sub004/internal/domain/model"
)

// NormalizeTracks maps raw captured fragments to canonical tracks,
// preserving arrival order. Fragments that fail to parse or resolve to
// a nameless track are dropped. No cross-record deduplication happens
// here; downstream matching dedupes on ISRC across runs.
func NormalizeTracks(fragments []json.RawMessage) []model.Track {
	tracks := make([]model.Track, 0, len(fragments))
	for _, raw := range fragments {
		item, err := ParsePlaylistItem(raw)
		if err != nil {
			continue
		}
		if track := item.ToTrack(); track != nil {
			tracks = append(tracks, *track)
		}
	}
	return tracks
}
