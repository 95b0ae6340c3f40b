package reader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/achilleasa/sdfmarch/scene"
)

var logger = log.New("scene reader")

// Read a scene description from a local file or an http/https URL and build
// the scene and camera it describes. Paths ending in ".zst" are
// decompressed with zstd.
func ReadScene(pathToScene string) (*scene.Scene, scene.Camera, error) {
	src, err := openSceneSource(pathToScene)
	if err != nil {
		return nil, scene.NewCamera(), err
	}
	defer src.Close()

	logger.Noticef("parsing scene description from %s", src)

	sc, camera, err := decodeScene(src)
	if err != nil {
		return nil, camera, fmt.Errorf("scene reader: %s: %w", src.location, err)
	}

	logger.Infof("loaded %d primitive(s) with operation %s", sc.Field.Primitives(), sc.Operation)
	return sc, camera, nil
}

func decodeScene(r io.Reader) (*scene.Scene, scene.Camera, error) {
	var desc scene.Description
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return nil, scene.NewCamera(), err
	}
	return desc.Build()
}
