package cpu

import (
	"math"
	"testing"

	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

func TestIntersectFloor(t *testing.T) {
	up := types.XYZ(0, 1, 0)

	if tHit := IntersectFloor(types.XYZ(0, 1, 0), types.XYZ(0, -1, 0), up, types.Vec3{}); tHit != 1 {
		t.Fatalf("expected floor hit at t=1; got %f", tHit)
	}

	// Parallel rays never produce a valid hit.
	tHit := IntersectFloor(types.XYZ(0, 1, 0), types.XYZ(1, 0, 0), up, types.Vec3{})
	if FloorHitValid(tHit, 0, 150) {
		t.Fatalf("expected parallel ray to miss the floor; got t=%f", tHit)
	}

	tHit = IntersectFloor(types.Vec3{}, types.XYZ(1, 0, 0), up, types.Vec3{})
	if !math.IsNaN(float64(tHit)) {
		t.Fatalf("expected NaN for a ray lying in the plane; got %f", tHit)
	}
	if FloorHitValid(tHit, 0, 150) {
		t.Fatal("expected NaN hit to be rejected")
	}

	// Floor behind the ray.
	tHit = IntersectFloor(types.XYZ(0, 1, 0), types.XYZ(0, 1, 0), up, types.Vec3{})
	if FloorHitValid(tHit, 0, 150) {
		t.Fatalf("expected hit behind the ray origin to be rejected; got t=%f", tHit)
	}
}

func TestFloorHitValid(t *testing.T) {
	type spec struct {
		t, near, far float32
		exp          bool
	}
	inf := float32(math.Inf(1))
	specs := []spec{
		{5, 0, 150, true},
		{0, 0, 150, true},
		{150, 0, 150, false},
		{0.5, 1, 150, false},
		{-1, 0, 150, false},
		{inf, 0, 150, false},
		{-inf, 0, 150, false},
	}

	for index, s := range specs {
		if got := FloorHitValid(s.t, s.near, s.far); got != s.exp {
			t.Fatalf("[spec %d] expected FloorHitValid(%f, %f, %f) to be %t", index, s.t, s.near, s.far, s.exp)
		}
	}
}

func TestFloorTexture(t *testing.T) {
	type spec struct {
		p   types.Vec3
		exp float32
	}
	specs := []spec{
		{types.XYZ(0.5, 0, 0.5), checkerDark},
		{types.XYZ(2.5, -3, 2.5), checkerDark},
		{types.XYZ(1.5, 0, 0.5), checkerLight},
		{types.XYZ(-0.5, 0, 0.5), checkerLight},
		{types.XYZ(-0.5, 0, -0.5), checkerDark},
	}

	for index, s := range specs {
		// Same point, same texel.
		for i := 0; i < 3; i++ {
			if got := FloorTexture(s.p); got != s.exp {
				t.Fatalf("[spec %d] expected texture %f; got %f", index, s.exp, got)
			}
		}
	}
}

func TestContourOverlay(t *testing.T) {
	field := scene.Sphere(types.Vec3{}, 0.5)
	params := tracer.DefaultMarchParams()

	if got := ContourOverlay(field, types.XYZ(0.71, 0, 0), params); got != params.ContourShade {
		t.Fatalf("expected point on a contour line to be shaded with %f; got %f", params.ContourShade, got)
	}
	if got := ContourOverlay(field, types.XYZ(0.56, 0, 0), params); got != 1 {
		t.Fatalf("expected point between contour lines to be unshaded; got %f", got)
	}
}
