package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coverServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("fake image data"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covers")

	cache, err := NewCache(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cache.Dir())

	_, err = os.Stat(dir)
	assert.NoError(t, err, "cache directory should be created")
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url yields no path", func(t *testing.T) {
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)

		path, err := cache.Ensure(ctx, 1, "")
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("downloads once and reuses the file", func(t *testing.T) {
		server := coverServer(t)
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)

		path1, err := cache.Ensure(ctx, 1, server.URL+"/cover.jpg")
		require.NoError(t, err)
		require.NotEmpty(t, path1)

		data, err := os.ReadFile(path1)
		require.NoError(t, err)
		assert.Equal(t, "fake image data", string(data))

		path2, err := cache.Ensure(ctx, 1, server.URL+"/cover.jpg")
		require.NoError(t, err)
		assert.Equal(t, path1, path2)
	})

	t.Run("changed url misses the cache", func(t *testing.T) {
		server := coverServer(t)
		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)

		path1, err := cache.Ensure(ctx, 1, server.URL+"/cover.jpg")
		require.NoError(t, err)
		path2, err := cache.Ensure(ctx, 1, server.URL+"/replacement.jpg")
		require.NoError(t, err)
		assert.NotEqual(t, path1, path2)
	})

	t.Run("upstream failure is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		cache, err := NewCache(t.TempDir())
		require.NoError(t, err)

		_, err = cache.Ensure(ctx, 1, server.URL+"/missing.jpg")
		assert.Error(t, err)
	})
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	server := coverServer(t)
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	mine, err := cache.Ensure(ctx, 1, server.URL+"/cover.jpg")
	require.NoError(t, err)
	other, err := cache.Ensure(ctx, 2, server.URL+"/cover.jpg")
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(1))

	_, err = os.Stat(mine)
	assert.True(t, os.IsNotExist(err), "invalidated cover should be gone")
	_, err = os.Stat(other)
	assert.NoError(t, err, "other books keep their covers")
}
