package writer

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/scene/reader"
	"github.com/achilleasa/sdfmarch/types"
)

func TestWriteAndReadScene(t *testing.T) {
	sc := scene.NewDefaultScene()
	if err := sc.SetOperation(scene.OpUnion); err != nil {
		t.Fatal(err)
	}
	camera := scene.NewCamera()
	camera.Eye = types.XYZ(1, 2, -4)
	camera.Rotate(0.25, -0.1)

	for specIndex, name := range []string{"scene.json", "scene.json.zst"} {
		pathToFile := filepath.Join(t.TempDir(), name)
		if err := WriteScene(pathToFile, sc, camera); err != nil {
			t.Fatalf("[spec %d] %v", specIndex, err)
		}

		gotScene, gotCamera, err := reader.ReadScene(pathToFile)
		if err != nil {
			t.Fatalf("[spec %d] %v", specIndex, err)
		}
		if gotScene.Operation != scene.OpUnion {
			t.Fatalf("[spec %d] expected operation union; got %s", specIndex, gotScene.Operation)
		}
		if gotScene.Field.String() != sc.Field.String() {
			t.Fatalf("[spec %d] expected field %s; got %s", specIndex, sc.Field, gotScene.Field)
		}
		if gotScene.Floor == nil || *gotScene.Floor != *sc.Floor {
			t.Fatalf("[spec %d] expected floor %v; got %v", specIndex, sc.Floor, gotScene.Floor)
		}
		if gotCamera != camera {
			t.Fatalf("[spec %d] expected camera %s; got %s", specIndex, camera, gotCamera)
		}
	}
}

func TestEncodeOmitsDisabledFloor(t *testing.T) {
	sc := scene.NewDefaultScene()
	sc.Floor = nil

	var buf bytes.Buffer
	if err := Encode(&buf, sc, scene.NewCamera()); err != nil {
		t.Fatal(err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["floor"]; ok {
		t.Fatal("expected floor to be omitted")
	}
	field := doc["field"].(map[string]interface{})
	if field["type"] != "intersection" {
		t.Fatalf("expected root node type intersection; got %v", field["type"])
	}
}

func TestWriteSceneToBadPath(t *testing.T) {
	pathToFile := filepath.Join(t.TempDir(), "missing", "scene.json")
	if err := WriteScene(pathToFile, scene.NewDefaultScene(), scene.NewCamera()); err == nil {
		t.Fatal("expected an error")
	}
}
