package capture

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lbugz/PubCo-Live-sub004/internal/infra/crawler/types"
)

func newTestCapture() *Capture {
	return New(log.New(io.Discard))
}

func jsonResponse(url, body string) types.NetworkResponse {
	return types.NetworkResponse{
		RequestURL: url,
		MimeType:   "application/json",
		Body:       []byte(body),
	}
}

func TestHandleResponseKeepsFirstBatchPerOffset(t *testing.T) {
	c := newTestCapture()

	c.HandleResponse(jsonResponse(
		"https://api-partner.spotify.com/pathfinder/v1/query?offset=100",
		`{"items":[{"track":{"name":"A"}},{"track":{"name":"B"}}]}`,
	))
	c.HandleResponse(jsonResponse(
		"https://api-partner.spotify.com/pathfinder/v1/query?offset=100",
		`{"items":[{"track":{"name":"C"}},{"track":{"name":"D"}},{"track":{"name":"E"}}]}`,
	))

	assert.Len(t, c.Snapshot(), 2, "second batch at a seen offset must be discarded wholesale")
	assert.Equal(t, []int64{100}, c.Offsets())
}

func TestHandleResponseShapeLocationOrder(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		items int
	}{
		{"top-level items", `{"items":[{"track":{"name":"A"}}]}`, 1},
		{"tracks-wrapped items", `{"tracks":{"items":[{"track":{"name":"A"}},{"track":{"name":"B"}}]}}`, 2},
		{"content-wrapped items", `{"content":{"items":[{"track":{"name":"A"}}]}}`, 1},
		{"no item list anywhere", `{"profile":{"name":"someone"}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCapture()
			c.HandleResponse(jsonResponse("https://spclient.wg.spotify.com/playlist/v2?offset=0", tt.body))
			assert.Len(t, c.Snapshot(), tt.items)
		})
	}
}

func TestHandleResponseTopLevelItemsWinOverNested(t *testing.T) {
	c := newTestCapture()
	c.HandleResponse(jsonResponse(
		"https://api-partner.spotify.com/pathfinder/v1/query?offset=0",
		`{"items":[{"track":{"name":"top"}}],"tracks":{"items":[{"track":{"name":"n1"}},{"track":{"name":"n2"}}]}}`,
	))
	require.Len(t, c.Snapshot(), 1)
}

func TestHandleResponseCheapReject(t *testing.T) {
	c := newTestCapture()

	// Wrong host: never parsed, even with a valid batch body.
	c.HandleResponse(jsonResponse(
		"https://cdn.example.com/assets?offset=0",
		`{"items":[{"track":{"name":"A"}}]}`,
	))
	// Right host, wrong content type.
	c.HandleResponse(types.NetworkResponse{
		RequestURL: "https://open.spotify.com/playlist/abc?offset=0",
		MimeType:   "text/html",
		Body:       []byte(`{"items":[{"track":{"name":"A"}}]}`),
	})

	assert.Empty(t, c.Snapshot())
	assert.Empty(t, c.Offsets())
}

func TestHandleResponseSwallowsParseNoise(t *testing.T) {
	c := newTestCapture()

	c.HandleResponse(jsonResponse("https://open.spotify.com/api/x?offset=0", `<!DOCTYPE html>`))
	c.HandleResponse(jsonResponse("https://open.spotify.com/api/x?offset=0", `{"tracks":[1,2,3]}`))

	assert.Empty(t, c.Snapshot())
	// Neither response may claim the offset; a later valid batch at 0
	// must still be accepted.
	c.HandleResponse(jsonResponse("https://open.spotify.com/api/x?offset=0", `{"items":[{"track":{"name":"A"}}]}`))
	assert.Len(t, c.Snapshot(), 1)
}

func TestHandleResponseMissingOffsetDefaultsToZero(t *testing.T) {
	c := newTestCapture()

	c.HandleResponse(jsonResponse("https://open.spotify.com/api/x", `{"items":[{"track":{"name":"A"}}]}`))
	c.HandleResponse(jsonResponse("https://open.spotify.com/api/y", `{"items":[{"track":{"name":"B"}}]}`))

	assert.Len(t, c.Snapshot(), 1, "both offset-less responses map to offset 0")
	assert.Equal(t, []int64{0}, c.Offsets())
}

func TestExtractOffset(t *testing.T) {
	tests := []struct {
		url  string
		want int64
	}{
		{"https://x.spotify.com/q?offset=200", 200},
		{"https://x.spotify.com/q?start=50", 50},
		{"https://x.spotify.com/q?offset=25&start=99", 25},
		{"https://x.spotify.com/q?offset=abc", 0},
		{"https://x.spotify.com/q?offset=abc&start=75", 75},
		{"https://x.spotify.com/q", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractOffset(tt.url), tt.url)
	}
}
