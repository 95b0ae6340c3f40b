package reader

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/types"
	"github.com/klauspost/compress/zstd"
)

const unionScene = `{
	"field": {
		"type": "union",
		"left": {"type": "sphere", "origin": [0, 0, 0], "radius": 0.5},
		"right": {"type": "box", "origin": [1, 0, 0], "half_extents": [0.25, 0.25, 0.25]}
	},
	"sky": [0.1, 0.2, 0.3, 1],
	"ambient": [0.05, 0.05, 0.05, 1],
	"light0": {"position": [0, 5, 0], "color": [1, 1, 1, 1]},
	"camera": {"eye": [0, 1, -3], "yaw": 0.5, "pitch": 0.1, "focal": 2, "near": 0.1, "far": 50}
}`

func TestReadSceneFromFile(t *testing.T) {
	pathToScene := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(pathToScene, []byte(unionScene), 0644); err != nil {
		t.Fatal(err)
	}

	sc, camera, err := ReadScene(pathToScene)
	if err != nil {
		t.Fatal(err)
	}
	assertUnionScene(t, sc, camera)
}

func TestReadCompressedScene(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	payload := enc.EncodeAll([]byte(unionScene), nil)
	enc.Close()

	pathToScene := filepath.Join(t.TempDir(), "scene.json.zst")
	if err = os.WriteFile(pathToScene, payload, 0644); err != nil {
		t.Fatal(err)
	}

	sc, camera, err := ReadScene(pathToScene)
	if err != nil {
		t.Fatal(err)
	}
	assertUnionScene(t, sc, camera)
}

func TestReadSceneOverHttp(t *testing.T) {
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/scenes/union.json" {
			w.Write([]byte(unionScene))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	sc, camera, err := ReadScene(server.URL + "/scenes/union.json")
	if err != nil {
		t.Fatal(err)
	}
	assertUnionScene(t, sc, camera)

	if _, _, err = ReadScene(server.URL + "/scenes/missing.json"); err == nil {
		t.Fatal("expected an error for a missing remote scene")
	}
}

func TestDecodeSceneErrors(t *testing.T) {
	specs := []struct {
		payload string
		expErr  error
	}{
		{`{"sky": [0, 0, 0, 1]}`, scene.ErrNilNode},
		{`{"field": {"type": "torus"}}`, scene.ErrUnknownNodeType},
		{`{"field": {"type": "box", "origin": [0, 0, 0]}}`, scene.ErrBadDimensions},
		{`{"field": {"type": "sphere", "radius": -1}}`, scene.ErrBadDimensions},
		{`{"field": {"type": "union", "left": {"type": "sphere", "radius": 1}}}`, scene.ErrNilNode},
		{`{"field": {"type": "sphere", "radius": 1}, "camera": {"focal": 0, "far": 10}}`, scene.ErrInvalidCamera},
	}

	for specIndex, spec := range specs {
		_, _, err := decodeScene(strings.NewReader(spec.payload))
		if !errors.Is(err, spec.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", specIndex, spec.expErr, err)
		}
	}

	// Unknown fields are rejected
	_, _, err := decodeScene(bytes.NewBufferString(`{"field": {"type": "sphere", "radius": 1}, "fog": 1}`))
	if err == nil || !strings.Contains(err.Error(), "fog") {
		t.Fatalf("expected unknown field error; got %v", err)
	}
}

func TestDecodeSceneWithoutCamera(t *testing.T) {
	sc, camera, err := decodeScene(strings.NewReader(`{"field": {"type": "sphere", "radius": 1}}`))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Floor != nil {
		t.Fatal("expected floor to be disabled")
	}
	if camera != scene.NewCamera() {
		t.Fatalf("expected default camera; got %s", camera)
	}
}

func assertUnionScene(t *testing.T, sc *scene.Scene, camera scene.Camera) {
	t.Helper()

	if sc.Operation != scene.OpUnion {
		t.Fatalf("expected operation union; got %s", sc.Operation)
	}
	if got := sc.Field.Primitives(); got != 2 {
		t.Fatalf("expected 2 primitives; got %d", got)
	}
	if d := sc.Field.Distance(types.XYZ(1, 0, 0)); d >= 0 {
		t.Fatalf("expected box centre to be inside the field; got distance %f", d)
	}
	if sc.Floor != nil {
		t.Fatal("expected floor to be disabled")
	}
	if sc.SkyColor != types.XYZW(0.1, 0.2, 0.3, 1) {
		t.Fatalf("expected sky color (0.1, 0.2, 0.3, 1); got %v", sc.SkyColor)
	}
	if camera.Eye != types.XYZ(0, 1, -3) || camera.Yaw != 0.5 || camera.FocalLength != 2 || camera.Far != 50 {
		t.Fatalf("unexpected camera %s", camera)
	}
	if camera.Forward == (types.Vec3{}) {
		t.Fatal("expected camera basis to be updated")
	}
}
