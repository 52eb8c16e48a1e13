package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>App reviews</title>
    <item>
      <title>Great app!</title>
      <description><![CDATA[<p>Love the <b>new</b> design.</p>]]></description>
    </item>
    <item>
      <title>Too slow</title>
      <description>Takes
      forever to load&amp;crash.</description>
    </item>
    <item>
      <title></title>
      <description></description>
    </item>
    <item>
      <title>Fine</title>
    </item>
  </channel>
</rss>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Reviews(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, reviewsRSS)
	c := NewClient(srv.Client())

	got, err := c.Reviews(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Great app!: Love the new design.",
		"Too slow: Takes forever to load&crash.",
		"Fine",
	}, "\n"), got)
}

func TestClient_MaxItems(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, reviewsRSS)
	c := NewClient(srv.Client())
	c.MaxItems = 1

	got, err := c.Reviews(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Great app!: Love the new design.", got)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	t.Run("Status", func(t *testing.T) {
		srv := serve(t, http.StatusNotFound, "no such feed")
		_, err := NewClient(srv.Client()).Reviews(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=404")
		assert.Contains(t, err.Error(), "no such feed")
	})

	t.Run("NotAFeed", func(t *testing.T) {
		srv := serve(t, http.StatusOK, "just text")
		_, err := NewClient(srv.Client()).Reviews(context.Background(), srv.URL)
		assert.Error(t, err)
	})

	t.Run("NoItems", func(t *testing.T) {
		srv := serve(t, http.StatusOK, `<rss version="2.0"><channel><title>x</title></channel></rss>`)
		_, err := NewClient(srv.Client()).Reviews(context.Background(), srv.URL)
		assert.ErrorIs(t, err, ErrNoReviews)
	})

	t.Run("BlankURL", func(t *testing.T) {
		_, err := NewClient(nil).Reviews(context.Background(), "  ")
		assert.Error(t, err)
	})
}
