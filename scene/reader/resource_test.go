package reader

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestLocalSceneSource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	src, err := openSceneSource(thisFile)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.IsRemote() || src.compressed {
		t.Fatalf("expected a plain local source; got %s", src)
	}
	if !strings.HasSuffix(src.String(), "(local)") {
		t.Fatalf("expected source description to end with (local); got %s", src)
	}
}

func TestCompressedSceneSource(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	payload := enc.EncodeAll([]byte(unionScene), nil)
	enc.Close()

	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	pathToScene := filepath.Join(t.TempDir(), "scene.json.zst")
	if err = os.WriteFile(pathToScene, payload, 0644); err != nil {
		t.Fatal(err)
	}

	specs := []struct {
		location string
		expKind  string
	}{
		{pathToScene, "(local zstd)"},
		{server.URL + "/scene.json.zst", "(remote zstd)"},
	}
	for specIndex, spec := range specs {
		src, err := openSceneSource(spec.location)
		if err != nil {
			t.Fatalf("[spec %d] %v", specIndex, err)
		}
		if !strings.HasSuffix(src.String(), spec.expKind) {
			t.Fatalf("[spec %d] expected source description to end with %s; got %s", specIndex, spec.expKind, src)
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			t.Fatalf("[spec %d] %v", specIndex, err)
		}
		if string(data) != unionScene {
			t.Fatalf("[spec %d] expected decompressed scene description; got %q", specIndex, data)
		}
	}
}

func TestHttpSceneSource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	src, err := openSceneSource(fetchUrl)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if !src.IsRemote() {
		t.Fatal("expected http source to be remote")
	}

	fetchUrl = server.URL + "/file-not-found.foo"
	expError := fmt.Sprintf("scene source: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = openSceneSource(fetchUrl)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestUnsupportedSceneSourceScheme(t *testing.T) {
	expError := "scene source: unsupported scheme 'gopher'"
	_, err := openSceneSource("gopher://digging.json")
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestSceneSourceConnectionRefusedError(t *testing.T) {
	_, err := openSceneSource("http://localhost:12345/scene.json")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected to get 'connection refused error'; got %v", err)
	}
}
