package writer

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/klauspost/compress/zstd"
)

var logger = log.New("scene writer")

// Serialize the scene and camera as a JSON scene description. Paths ending
// in ".zst" are compressed with zstd.
func WriteScene(pathToFile string, sc *scene.Scene, camera scene.Camera) (err error) {
	f, err := os.Create(pathToFile)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	var w io.Writer = f
	if strings.HasSuffix(pathToFile, ".zst") {
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		if err = Encode(enc, sc, camera); err != nil {
			enc.Close()
			return err
		}
		err = enc.Close()
		if err == nil {
			logger.Noticef("wrote compressed scene description to %s", pathToFile)
		}
		return err
	}

	if err = Encode(w, sc, camera); err != nil {
		return err
	}
	logger.Noticef("wrote scene description to %s", pathToFile)
	return nil
}

// Encode writes the JSON description of the scene and camera to w.
func Encode(w io.Writer, sc *scene.Scene, camera scene.Camera) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scene.Describe(sc, camera))
}
