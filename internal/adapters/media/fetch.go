package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
)

const maxFetchBytes = 64 << 20

var ErrUnsupportedMedia = errors.New("unsupported media type")

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// IsRemote reports whether target names an http or https resource.
func IsRemote(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetcher downloads remote images to temporary files so the file loaders can
// read them.
type Fetcher struct {
	Client *http.Client
	// Dir holds downloads; empty uses the system temp directory.
	Dir string
}

// Localize returns a local path for target. Local paths pass through unchanged
// with a no-op cleanup. Remote targets are downloaded and cleanup removes the file.
func (f Fetcher) Localize(ctx context.Context, target string) (string, func(), error) {
	if !IsRemote(target) {
		return target, func() {}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build request for %s: %w", target, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", nil, fmt.Errorf("download %s: unexpected status %s", target, resp.Status)
	}

	ext, err := extensionFor(resp.Header.Get("Content-Type"), resp.Request.URL.Path)
	if err != nil {
		return "", nil, fmt.Errorf("download %s: %w", target, err)
	}

	file, err := os.CreateTemp(f.Dir, "coverscreen-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create download file: %w", err)
	}
	cleanup := func() { _ = os.Remove(file.Name()) }

	written, err := io.Copy(file, io.LimitReader(resp.Body, maxFetchBytes+1))
	closeErr := file.Close()
	if err == nil && written > maxFetchBytes {
		err = fmt.Errorf("exceeds %d bytes", maxFetchBytes)
	}
	if err = errors.Join(err, closeErr); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("download %s: %w", target, err)
	}

	return file.Name(), cleanup, nil
}

// extensionFor maps a Content-Type to the file extension the image decoders
// expect. Generic binary responses fall back to the URL's own extension.
func extensionFor(contentType, urlPath string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		if ext, ok := extensionsByType[strings.ToLower(mediaType)]; ok {
			return ext, nil
		}
	}

	if err != nil || mediaType == "application/octet-stream" {
		ext := strings.ToLower(path.Ext(urlPath))
		for _, known := range extensionsByType {
			if ext == known || (ext == ".jpeg" && known == ".jpg") {
				return ext, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedMedia, contentType)
}
