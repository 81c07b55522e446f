package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "1.0.0 < 1.0.1", a: "1.0.0", b: "1.0.1", want: -1},
		{name: "1.0.1 > 1.0.0", a: "1.0.1", b: "1.0.0", want: 1},
		{name: "1.0.0 == 1.0.0", a: "1.0.0", b: "1.0.0", want: 0},
		{name: "v1.0.0 < 1.0.1", a: "v1.0.0", b: "1.0.1", want: -1},
		{name: "2.0.0 > 1.9.9", a: "2.0.0", b: "1.9.9", want: 1},
		{name: "dev > 1.0.0", a: "dev", b: "1.0.0", want: 1},
		{name: "1.0.0 < dev", a: "1.0.0", b: "dev", want: -1},
		{name: "1.0.0-beta == 1.0.0", a: "1.0.0-beta", b: "1.0.0", want: 0},
		{name: "0.10.0 > 0.9.0", a: "0.10.0", b: "0.9.0", want: 1},
		{name: "1.2 < 1.2.1", a: "1.2", b: "1.2.1", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compareVersions(tt.a, tt.b))
		})
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/strata", dir)
}

func TestChecker_FetchAndCache(t *testing.T) {
	var hits atomic.Int32
	var userAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		userAgent.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"tag_name":"v0.2.0","html_url":"https://github.com/pthm/strata/releases/tag/v0.2.0"}`))
	}))
	defer srv.Close()

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &Checker{
		URL:      srv.URL,
		CacheDir: t.TempDir(),
		Current:  "0.1.0",
		Client:   srv.Client(),
		Now:      func() time.Time { return now },
	}

	info, err := c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", info.LatestVersion)
	assert.True(t, info.UpdateAvailable)
	assert.Contains(t, info.ReleaseURL, "v0.2.0")
	assert.Equal(t, "strata/0.1.0", userAgent.Load())

	// Served from cache within the TTL.
	c.Current = "0.2.0"
	info, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, info.UpdateAvailable)
	assert.Equal(t, int32(1), hits.Load())

	// Refetched once the cache expires.
	now = now.Add(25 * time.Hour)
	_, err = c.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, "strata/0.2.0", userAgent.Load())
}

func TestChecker_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := &Checker{URL: srv.URL, CacheDir: t.TempDir(), Current: "0.1.0", Client: srv.Client(), Now: time.Now}
	_, err := c.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
