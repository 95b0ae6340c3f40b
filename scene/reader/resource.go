package reader

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Scene descriptions with this suffix are zstd-compressed.
const compressedSuffix = ".zst"

// A scene description stream opened from a local file or an http/https URL.
// Reads return the decompressed JSON document.
type sceneSource struct {
	io.Reader

	location   *url.URL
	body       io.Closer
	decoder    *zstd.Decoder
	compressed bool
}

// Open a scene description. Backslashes in local paths are accepted. The
// caller must Close the returned source.
func openSceneSource(pathToScene string) (*sceneSource, error) {
	location, err := url.Parse(strings.Replace(pathToScene, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("scene source: invalid location %q: %w", pathToScene, err)
	}

	body, err := openBody(location)
	if err != nil {
		return nil, err
	}

	src := &sceneSource{
		Reader:     body,
		location:   location,
		body:       body,
		compressed: strings.HasSuffix(location.Path, compressedSuffix),
	}
	if src.compressed {
		if src.decoder, err = zstd.NewReader(body); err != nil {
			body.Close()
			return nil, fmt.Errorf("scene source: %s: %w", src, err)
		}
		src.Reader = src.decoder
	}

	return src, nil
}

func openBody(location *url.URL) (io.ReadCloser, error) {
	switch location.Scheme {
	case "":
		f, err := os.Open(filepath.Clean(location.Path))
		if err != nil {
			return nil, err
		}
		return f, nil
	case "http", "https":
		resp, err := http.Get(location.String())
		if err != nil {
			return nil, fmt.Errorf("scene source: could not fetch '%s': %s", location, err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("scene source: could not fetch '%s': status %d", location, resp.StatusCode)
		}
		return resp.Body, nil
	}
	return nil, fmt.Errorf("scene source: unsupported scheme '%s'", location.Scheme)
}

// Returns true if the description is streamed over http/https.
func (src *sceneSource) IsRemote() bool {
	return src.location.Scheme != ""
}

func (src *sceneSource) String() string {
	kind := "local"
	if src.IsRemote() {
		kind = "remote"
	}
	if src.compressed {
		kind += " zstd"
	}
	return fmt.Sprintf("%s (%s)", src.location, kind)
}

// Close the decoder and the underlying file or response body.
func (src *sceneSource) Close() error {
	if src.decoder != nil {
		src.decoder.Close()
	}
	return src.body.Close()
}
