package cmd

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/achilleasa/sdfmarch/renderer"
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/scene/reader"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/tracer/cpu"
	"github.com/urfave/cli"
)

// Flags shared by all commands that render the scene.
func SceneFlags() []cli.Flag {
	params := tracer.DefaultMarchParams()
	sc := scene.NewDefaultScene()
	camera := scene.NewCamera()

	return []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Usage: "load a JSON scene description from a file or http(s) URL; other scene flags override it when set",
		},
		cli.IntFlag{
			Name:  "width",
			Value: 640,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 480,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: runtime.NumCPU(),
			Usage: "number of tracer goroutines",
		},
		cli.StringFlag{
			Name:  "scheduler",
			Value: "perfect",
			Usage: "block scheduler (naive or perfect)",
		},
		cli.IntFlag{
			Name:  "steps",
			Value: params.Steps,
			Usage: "sphere tracing step budget",
		},
		cli.Float64Flag{
			Name:  "epsilon",
			Value: float64(params.Epsilon),
			Usage: "base surface tolerance",
		},
		cli.Float64Flag{
			Name:  "shadow-k",
			Value: float64(params.ShadowK),
			Usage: "soft shadow sharpness",
		},
		cli.StringFlag{
			Name:  "op",
			Value: sc.Operation.String(),
			Usage: "field operation (intersection or union)",
		},
		cli.StringFlag{
			Name:  "mode",
			Value: tracer.Lit.String(),
			Usage: "shading mode (lit, depth, normals or steps)",
		},
		cli.StringFlag{
			Name:  "sky",
			Value: formatVec(sc.SkyColor[:]),
			Usage: "sky colour as r,g,b,a",
		},
		cli.StringFlag{
			Name:  "ambient",
			Value: formatVec(sc.Ambient[:]),
			Usage: "ambient colour as r,g,b,a",
		},
		cli.StringFlag{
			Name:  "light-pos",
			Value: formatVec(sc.Light0Position[:]),
			Usage: "light position as x,y,z",
		},
		cli.StringFlag{
			Name:  "light-color",
			Value: formatVec(sc.Light0Color[:]),
			Usage: "light colour as r,g,b,a",
		},
		cli.StringFlag{
			Name:  "eye",
			Value: formatVec(camera.Eye[:]),
			Usage: "camera position as x,y,z",
		},
		cli.Float64Flag{
			Name:  "yaw",
			Usage: "camera yaw in radians",
		},
		cli.Float64Flag{
			Name:  "pitch",
			Usage: "camera pitch in radians; positive values look down",
		},
		cli.Float64Flag{
			Name:  "focal",
			Value: float64(camera.FocalLength),
			Usage: "camera focal length",
		},
		cli.Float64Flag{
			Name:  "near",
			Value: float64(camera.Near),
			Usage: "near clip distance",
		},
		cli.Float64Flag{
			Name:  "far",
			Value: float64(camera.Far),
			Usage: "far clip distance",
		},
		cli.BoolFlag{
			Name:  "no-floor",
			Usage: "disable the ground plane",
		},
	}
}

// Everything needed to construct a renderer.
type renderSetup struct {
	opts      renderer.Options
	scene     *scene.Scene
	camera    scene.Camera
	scheduler tracer.BlockScheduler
	workers   int
}

// Build the renderer configuration from the command flags.
func setupFromFlags(ctx *cli.Context) (*renderSetup, error) {
	var err error
	setup := &renderSetup{
		opts:   renderer.DefaultOptions(),
		scene:  scene.NewDefaultScene(),
		camera: scene.NewCamera(),
	}

	if ctx.Int("width") <= 0 || ctx.Int("height") <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", ctx.Int("width"), ctx.Int("height"))
	}
	setup.opts.FrameW = uint32(ctx.Int("width"))
	setup.opts.FrameH = uint32(ctx.Int("height"))
	setup.opts.Params.Steps = ctx.Int("steps")
	setup.opts.Params.Epsilon = float32(ctx.Float64("epsilon"))
	setup.opts.Params.ShadowK = float32(ctx.Float64("shadow-k"))
	if setup.opts.Mode, err = tracer.ParseMode(ctx.String("mode")); err != nil {
		return nil, err
	}
	if err = setup.opts.Validate(); err != nil {
		return nil, err
	}

	setup.workers = ctx.Int("workers")
	if setup.workers <= 0 {
		return nil, fmt.Errorf("invalid worker count %d", setup.workers)
	}
	if setup.scheduler, err = tracer.ParseScheduler(ctx.String("scheduler")); err != nil {
		return nil, err
	}

	// Scene. When loading a scene description only the explicitly set
	// flags override its values.
	pathToScene := ctx.String("scene")
	if pathToScene != "" {
		if setup.scene, setup.camera, err = reader.ReadScene(pathToScene); err != nil {
			return nil, err
		}
	}
	override := func(name string) bool {
		return pathToScene == "" || ctx.IsSet(name)
	}

	sc := setup.scene
	if override("op") {
		op, err := scene.ParseOperation(ctx.String("op"))
		if err != nil {
			return nil, err
		}
		if err = sc.SetOperation(op); err != nil {
			return nil, err
		}
	}
	vecFlags := []struct {
		name string
		dst  []float32
	}{
		{"sky", sc.SkyColor[:]},
		{"ambient", sc.Ambient[:]},
		{"light-pos", sc.Light0Position[:]},
		{"light-color", sc.Light0Color[:]},
		{"eye", setup.camera.Eye[:]},
	}
	for _, vf := range vecFlags {
		if !override(vf.name) {
			continue
		}
		if err = parseVecInto(vf.dst, ctx.String(vf.name)); err != nil {
			return nil, fmt.Errorf("invalid value for flag --%s: %w", vf.name, err)
		}
	}
	if ctx.Bool("no-floor") {
		sc.Floor = nil
	}
	if err = sc.Validate(); err != nil {
		return nil, err
	}

	// Camera
	cameraFlags := []struct {
		name string
		dst  *float32
	}{
		{"yaw", &setup.camera.Yaw},
		{"pitch", &setup.camera.Pitch},
		{"focal", &setup.camera.FocalLength},
		{"near", &setup.camera.Near},
		{"far", &setup.camera.Far},
	}
	for _, cf := range cameraFlags {
		if override(cf.name) {
			*cf.dst = float32(ctx.Float64(cf.name))
		}
	}
	setup.camera.Update()
	if err = setup.camera.Validate(); err != nil {
		return nil, err
	}

	return setup, nil
}

// Create a default renderer backed by a pool of cpu tracers.
func (setup *renderSetup) newRenderer() (renderer.Renderer, error) {
	tracers := cpu.NewTracerPool(setup.workers)
	r, err := renderer.NewDefault(setup.scene, setup.camera, setup.scheduler, tracers, setup.opts)
	if err != nil {
		for _, tr := range tracers {
			tr.Close()
		}
		return nil, err
	}
	return r, nil
}

// Parse a comma separated vector into dst. The number of components must
// match len(dst).
func parseVecInto(dst []float32, value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != len(dst) {
		return fmt.Errorf("expected %d comma separated components; got %q", len(dst), value)
	}

	for idx, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return fmt.Errorf("could not parse component %d of %q: %w", idx, value, err)
		}
		dst[idx] = float32(v)
	}
	return nil
}

func formatVec(v []float32) string {
	parts := make([]string, len(v))
	for idx, c := range v {
		parts[idx] = strconv.FormatFloat(float64(c), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}
