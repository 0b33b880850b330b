package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const feedStateJSON = `{
  "_Date": 637134336000000000,
  "Packages": [
    {"PackageType": "NuGet", "Id": "Foo", "Versions": ["1.0", "1.1"], "Dates": [637134336000000000, 637134336010000000]},
    {"PackageType": "NuGet", "Id": "Bar", "Versions": [], "Dates": []}
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL + "/", TimeoutSeconds: 5}, zap.NewNop())
}

func TestSnapshot(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/feed-state", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedStateJSON))
	})

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.Timestamp.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, snap.Packages, 2)

	foo := snap.Packages[0]
	assert.Equal(t, "Foo", foo.ID)
	assert.Equal(t, "NuGet", foo.Type)
	assert.Equal(t, []string{"1.0", "1.1"}, foo.Versions)
	require.Len(t, foo.PublishedDates, 2)
	assert.Equal(t, time.Second, foo.PublishedDates[1].Sub(foo.PublishedDates[0]))

	assert.Empty(t, snap.Packages[1].Versions)
}

func TestSnapshot_Errors(t *testing.T) {
	t.Run("Status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "feed is down", http.StatusServiceUnavailable)
		})

		_, err := c.Snapshot(context.Background())
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
		assert.Contains(t, err.Error(), "feed is down")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Packages": [`))
		})

		_, err := c.Snapshot(context.Background())
		assert.ErrorContains(t, err, "decode")
	})

	t.Run("Unreachable", func(t *testing.T) {
		c := NewClient(Config{URL: "http://127.0.0.1:1"}, zap.NewNop())
		_, err := c.Snapshot(context.Background())
		assert.Error(t, err)
	})
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/package/Foo.Bar/1.1.0-beta" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("PK-artifact"))
	})

	body, err := c.Download(context.Background(), "Foo.Bar", "1.1.0-beta")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "PK-artifact", string(data))

	_, err = c.Download(context.Background(), "Missing", "1.0")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestDownloadURL(t *testing.T) {
	c := NewClient(Config{URL: "https://feed.example.com/F/team/"}, zap.NewNop())
	assert.Equal(t, "https://feed.example.com/F/team/api/v2/package/Foo/1.0", c.DownloadURL("Foo", "1.0"))
	assert.Equal(t, "https://feed.example.com/F/team/api/v2/package/a%2Fb/1.0", c.DownloadURL("a/b", "1.0"))
}
