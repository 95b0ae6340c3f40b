package cpu

import (
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

const (
	checkerDark  float32 = 0.333
	checkerLight float32 = 1.0
)

// IntersectFloor returns the ray parameter where the ray meets the plane.
// Rays parallel to the plane yield an infinity or NaN.
func IntersectFloor(origin, dir, planeNormal, planePoint types.Vec3) float32 {
	return planePoint.Sub(origin).Dot(planeNormal) / dir.Dot(planeNormal)
}

// FloorHitValid reports whether t is a usable floor hit inside [near, far).
func FloorHitValid(t, near, far float32) bool {
	return types.IsFinite(t) && t >= 0 && t >= near && t < far
}

// FloorTexture returns the checkerboard intensity at p. Squares are two
// units wide in the xz plane.
func FloorTexture(p types.Vec3) float32 {
	m := p.XZ().Mod(2)
	if (m[0]-1)*(m[1]-1) > 0 {
		return checkerDark
	}
	return checkerLight
}

// ContourOverlay darkens floor points lying on iso-distance lines of the field.
func ContourOverlay(field *scene.Node, p types.Vec3, params tracer.MarchParams) float32 {
	if types.Mod(field.Distance(p), params.ContourSpacing) < params.ContourWidth {
		return params.ContourShade
	}
	return 1
}
