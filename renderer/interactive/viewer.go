package interactive

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/achilleasa/sdfmarch/renderer"
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// Camera movement speed per tick.
	cameraMoveSpeed float32 = 0.05

	// Camera rotation speed per tick in radians.
	cameraTurnSpeed float32 = 0.03
)

// Viewer is an ebiten-based preview window. Each tick applies keyboard
// input to the camera and re-renders the frame if anything changed.
type Viewer struct {
	logger   log.Logger
	renderer renderer.Renderer
	opts     renderer.Options

	// The camera controlled by the keyboard.
	camera scene.Camera

	frameImg *ebiten.Image
	rgba     []byte
	dirty    bool

	// Display options
	showUI bool
}

// Create a new viewer for the supplied renderer. Call Run to open the window.
func NewViewer(r renderer.Renderer) *Viewer {
	opts := r.Options()
	v := &Viewer{
		logger:   log.New("viewer"),
		renderer: r,
		opts:     opts,
		camera:   r.Camera(),
		rgba:     make([]byte, 4*int(opts.FrameW)*int(opts.FrameH)),
		dirty:    true,
	}

	return v
}

// Open the preview window and block until it is closed.
func (v *Viewer) Run() error {
	ebiten.SetWindowTitle("sdfmarch")
	ebiten.SetWindowSize(int(v.opts.FrameW), int(v.opts.FrameH))
	ebiten.SetTPS(60)

	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if err := v.handleKeys(); err != nil {
		return err
	}

	return v.refreshFrame(v.uploadFrame)
}

// Render a new frame when the view changed and pass its pixels to upload.
// The frame only changes when the camera, the scene or the mode do.
func (v *Viewer) refreshFrame(upload func(rgba []byte)) error {
	if !v.dirty {
		return nil
	}

	fb, err := v.renderer.Render(context.Background())
	if err != nil {
		return err
	}
	fb.CopyRGBA(v.rgba)
	v.dirty = false
	upload(v.rgba)

	return nil
}

// Copy the frame into the texture that Draw presents.
func (v *Viewer) uploadFrame(rgba []byte) {
	if v.frameImg == nil {
		v.frameImg = ebiten.NewImage(int(v.opts.FrameW), int(v.opts.FrameH))
	}
	v.frameImg.WritePixels(rgba)
}

func (v *Viewer) handleKeys() error {
	// Double speed if shift is pressed
	var speedScaler float32 = 1.0
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		speedScaler = 2.0
	}

	var pressed []ebiten.Key
	for _, key := range []ebiten.Key{
		ebiten.KeyW, ebiten.KeyS, ebiten.KeyQ, ebiten.KeyE,
		ebiten.KeyA, ebiten.KeyD, ebiten.KeyDigit2, ebiten.KeyX,
	} {
		if ebiten.IsKeyPressed(key) {
			pressed = append(pressed, key)
		}
	}

	camera := v.camera
	if applyCameraKeys(&camera, pressed, speedScaler) {
		if err := v.renderer.UpdateCamera(camera); err != nil {
			return err
		}
		v.camera = camera
		v.dirty = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		op := scene.OpUnion
		if v.renderer.Scene().Operation == scene.OpUnion {
			op = scene.OpIntersection
		}
		if err := v.renderer.SetOperation(op); err != nil {
			return err
		}
		v.logger.Noticef("switched field operation to %s", op)
		v.dirty = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		mode := v.renderer.Mode().Next()
		v.renderer.SetMode(mode)
		v.logger.Noticef("switched shading mode to %s", mode)
		v.dirty = true
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.showUI = !v.showUI
	}

	return nil
}

// Apply the held movement keys to the camera. W/S move forward and back,
// Q/E strafe, A/D yaw and 2/X pitch. Returns true if the camera changed.
func applyCameraKeys(camera *scene.Camera, pressed []ebiten.Key, speedScaler float32) bool {
	move := speedScaler * cameraMoveSpeed
	turn := speedScaler * cameraTurnSpeed

	var deltaYaw, deltaPitch float32
	changed := false
	for _, key := range pressed {
		switch key {
		case ebiten.KeyW:
			camera.Move(scene.MoveForward, move)
		case ebiten.KeyS:
			camera.Move(scene.MoveBackward, move)
		case ebiten.KeyQ:
			camera.Move(scene.MoveLeft, move)
		case ebiten.KeyE:
			camera.Move(scene.MoveRight, move)
		case ebiten.KeyA:
			deltaYaw -= turn
		case ebiten.KeyD:
			deltaYaw += turn
		case ebiten.KeyDigit2:
			deltaPitch -= turn
		case ebiten.KeyX:
			deltaPitch += turn
		default:
			continue
		}
		changed = true
	}

	if deltaYaw != 0 || deltaPitch != 0 {
		camera.Rotate(deltaYaw, deltaPitch)
	}
	return changed
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.frameImg != nil {
		screen.DrawImage(v.frameImg, nil)
	}

	if v.showUI {
		v.drawUI(screen)
	}
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return int(v.opts.FrameW), int(v.opts.FrameH)
}

// Outline the block assigned to each tracer and print the frame stats.
func (v *Viewer) drawUI(screen *ebiten.Image) {
	stats := v.renderer.Stats()

	var y float32
	frameW := float32(v.opts.FrameW)
	for idx, trStat := range stats.Tracers {
		if trStat.BlockH == 0 {
			continue
		}
		vector.StrokeRect(screen, 1, y+1, frameW-2, float32(trStat.BlockH)-2, 2, blockColor(idx), false)
		y += float32(trStat.BlockH)
	}

	ebitenutil.DebugPrint(screen, formatOverlay(stats, v.camera, v.renderer.Mode()))
}

func blockColor(idx int) color.RGBA {
	return color.RGBA{
		R: uint8(64 + (idx*97)%192),
		G: uint8(64 + (idx*53)%192),
		B: 255,
		A: 255,
	}
}

func formatOverlay(stats renderer.FrameStats, camera scene.Camera, mode tracer.Mode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frame: %s (%.1f steps/ray) mode: %s\n", stats.RenderTime, stats.StepsPerRay(), mode)
	fmt.Fprintf(&sb, "camera: %s\n", camera)
	for _, stat := range stats.Tracers {
		fmt.Fprintf(&sb, "%s: %d rows (%.1f%%) %s\n", stat.Id, stat.BlockH, stat.FramePercent, stat.RenderTime)
	}
	return sb.String()
}
