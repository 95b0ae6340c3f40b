package cpu

import (
	"testing"

	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

func testFrameState(mode tracer.Mode) *tracer.FrameState {
	return &tracer.FrameState{
		Camera:      scene.NewCamera(),
		Scene:       scene.NewDefaultScene(),
		Params:      tracer.DefaultMarchParams(),
		Mode:        mode,
		AspectRatio: 1,
	}
}

func TestPixelNDC(t *testing.T) {
	type spec struct {
		x, y       uint32
		expU, expV float32
	}
	specs := []spec{
		{0, 0, -0.75, 0.75},
		{3, 0, 0.75, 0.75},
		{1, 2, -0.25, -0.25},
		{3, 3, 0.75, -0.75},
	}

	for index, s := range specs {
		u, v := PixelNDC(s.x, s.y, 4, 4)
		if u != s.expU || v != s.expV {
			t.Fatalf("[spec %d] expected NDC (%f, %f); got (%f, %f)", index, s.expU, s.expV, u, v)
		}
	}
}

func TestShadeFragmentDefaultScene(t *testing.T) {
	state := testFrameState(tracer.Lit)
	sky := types.PackABGR(state.Scene.SkyColor)

	// The centre of a 4x4 frame looks at the solid.
	for _, px := range [][2]uint32{{1, 1}, {2, 1}, {1, 2}, {2, 2}} {
		u, v := PixelNDC(px[0], px[1], 4, 4)
		frag := ShadeFragment(state, u, v)
		if frag.Surface != SurfaceObject {
			t.Fatalf("[pixel %v] expected object hit; got %s", px, frag.Surface)
		}
		if types.PackABGR(frag.Color) == sky {
			t.Fatalf("[pixel %v] expected a shaded colour different from the sky", px)
		}
		if frag.Color[3] != 1 {
			t.Fatalf("[pixel %v] expected opaque colour; got alpha %f", px, frag.Color[3])
		}
	}

	// Top corners see the sky; bottom corners see the floor.
	for _, px := range [][2]uint32{{0, 0}, {3, 0}} {
		u, v := PixelNDC(px[0], px[1], 4, 4)
		frag := ShadeFragment(state, u, v)
		if frag.Surface != SurfaceSky {
			t.Fatalf("[pixel %v] expected sky; got %s", px, frag.Surface)
		}
		if frag.Color != state.Scene.SkyColor {
			t.Fatalf("[pixel %v] expected unmodified sky colour; got %v", px, frag.Color)
		}
	}
	for _, px := range [][2]uint32{{0, 3}, {3, 3}} {
		u, v := PixelNDC(px[0], px[1], 4, 4)
		if frag := ShadeFragment(state, u, v); frag.Surface != SurfaceFloor {
			t.Fatalf("[pixel %v] expected floor; got %s", px, frag.Surface)
		}
	}
}

func TestShadeFragmentWithoutFloor(t *testing.T) {
	state := testFrameState(tracer.Lit)
	state.Scene.Floor = nil

	u, v := PixelNDC(0, 3, 4, 4)
	frag := ShadeFragment(state, u, v)
	if frag.Surface != SurfaceSky {
		t.Fatalf("expected sky when the floor is disabled; got %s", frag.Surface)
	}
}

func TestShadeFragmentExhaustedTraceBeforeFloor(t *testing.T) {
	state := testFrameState(tracer.Lit)
	state.Scene.Field = scene.Sphere(types.XYZ(3, 0, -2), 2.5)
	state.Params.Steps = 1

	u, v := PixelNDC(0, 3, 4, 4)
	dir := state.Camera.RayDirection(u, v, state.AspectRatio)
	res := RayMarch(state.Scene.Field, state.Camera.Eye, dir, state.Params.Steps, state.Params.Epsilon, state.Camera.Far)
	floorT := IntersectFloor(state.Camera.Eye, dir, state.Scene.Floor.Normal, state.Scene.Floor.Point)
	if res.Hit || !(res.Distance < floorT) {
		t.Fatalf("expected trace to stop short of the floor; got %+v and floor distance %f", res, floorT)
	}

	frag := ShadeFragment(state, u, v)
	if frag.Surface != SurfaceSky {
		t.Fatalf("expected sky when the trace stops before the floor; got %s", frag.Surface)
	}
	if frag.Color != state.Scene.SkyColor {
		t.Fatalf("expected sky colour %v; got %v", state.Scene.SkyColor, frag.Color)
	}

	// With enough steps the trace escapes past the floor, which wins.
	state.Params.Steps = 64
	if frag = ShadeFragment(state, u, v); frag.Surface != SurfaceFloor {
		t.Fatalf("expected floor with a full step budget; got %s", frag.Surface)
	}
}

func TestShadeFragmentModes(t *testing.T) {
	u, v := PixelNDC(1, 1, 4, 4)

	depth := ShadeFragment(testFrameState(tracer.Depth), u, v)
	if depth.Surface != SurfaceObject {
		t.Fatalf("expected object hit; got %s", depth.Surface)
	}
	if depth.Color[0] != depth.Color[1] || depth.Color[1] != depth.Color[2] {
		t.Fatalf("expected grey depth colour; got %v", depth.Color)
	}
	if depth.Color[0] <= 0.9 || depth.Color[0] > 1 {
		t.Fatalf("expected a near surface to map close to 1; got %f", depth.Color[0])
	}

	normals := ShadeFragment(testFrameState(tracer.Normals), u, v)
	// The front face of the box points towards the camera (-z).
	if normals.Color[2] > 0.01 {
		t.Fatalf("expected front facing normal to map to a low blue channel; got %v", normals.Color)
	}

	steps := ShadeFragment(testFrameState(tracer.Steps), 0, 0)
	expHeat := float32(steps.Steps) / float32(tracer.DefaultMarchParams().Steps)
	if steps.Color[0] != expHeat {
		t.Fatalf("expected heat %f; got %f", expHeat, steps.Color[0])
	}
}
