package cpu

import (
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

// Visibility marches from p0 towards p1 and returns the fraction of light
// reaching p0: 0 when the segment is blocked, 1 when nothing comes close to
// it and a soft penumbra factor in between.
func Visibility(field *scene.Node, p0, p1 types.Vec3, params tracer.MarchParams) float32 {
	delta := p1.Sub(p0)
	maxT := delta.Len()
	if maxT == 0 {
		return 1
	}
	dir := delta.Mul(1 / maxT)

	f := float32(1)
	t := params.ShadowStartScale * params.Epsilon
	for step := 0; step < params.ShadowSteps && t < maxT; step++ {
		d := field.Distance(p0.Add(dir.Mul(t)))
		if d < params.Epsilon {
			return 0
		}
		f = min(f, params.ShadowK*d/t)
		t += d
	}
	return f
}

// Shade computes the direct lighting at a surface point with a single point
// light. Ambient fills in whatever the light does not reach.
func Shade(field *scene.Node, p, normal, lightPos types.Vec3, lightColor, ambient types.Color, params tracer.MarchParams) types.Color {
	var intensity float32
	if visibility := Visibility(field, p, lightPos, params); visibility > 0 {
		lightDir := lightPos.Sub(p).Normalize()
		intensity = visibility * types.Clamp(normal.Dot(lightDir), 0, 1)
	}
	return lightColor.Mul(intensity).Add(ambient.Mul(1 - intensity))
}
