package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRemote("https://example.com/cover.png"))
	assert.True(t, IsRemote("http://127.0.0.1:8080/a.gif"))
	assert.False(t, IsRemote("/tmp/cover.png"))
	assert.False(t, IsRemote("cover.png"))
	assert.False(t, IsRemote("ftp://example.com/cover.png"))
	assert.False(t, IsRemote("http:///no-host.png"))
}

func TestLocalizePassesLocalPathsThrough(t *testing.T) {
	t.Parallel()

	path, cleanup, err := Fetcher{}.Localize(context.Background(), "/tmp/cover.png")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cover.png", path)
	cleanup()
}

func TestLocalizeDownloadsRemoteImage(t *testing.T) {
	t.Parallel()

	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, image.NewRGBA(image.Rect(0, 0, 3, 2))))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(encoded.Bytes())
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	path, cleanup, err := Fetcher{Client: server.Client(), Dir: dir}.Localize(context.Background(), server.URL+"/cover")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".png", filepath.Ext(path))

	frame, err := LoadImage(path, 3, 2, ResizeFit)
	require.NoError(t, err)
	assert.Equal(t, 3, frame.Width)

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLocalizeRejectsBadResponses(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html></html>"))
		case "/blob.gif":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("GIF89a"))
		}
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	fetcher := Fetcher{Client: server.Client(), Dir: dir}

	_, _, err := fetcher.Localize(context.Background(), server.URL+"/missing.png")
	require.ErrorContains(t, err, "unexpected status 404")

	_, _, err = fetcher.Localize(context.Background(), server.URL+"/page")
	require.ErrorIs(t, err, ErrUnsupportedMedia)

	path, cleanup, err := fetcher.Localize(context.Background(), server.URL+"/blob.gif")
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, ".gif", filepath.Ext(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExtensionFor(t *testing.T) {
	t.Parallel()

	ext, err := extensionFor("image/jpeg", "/a")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	ext, err = extensionFor("", "/photo.JPEG")
	require.NoError(t, err)
	assert.Equal(t, ".jpeg", ext)

	_, err = extensionFor("video/mp4", "/clip.mp4")
	require.ErrorIs(t, err, ErrUnsupportedMedia)
}
