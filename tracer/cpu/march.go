package cpu

import (
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/types"
)

// The outcome of sphere tracing a single ray.
type TraceResult struct {
	// Iterations performed. Equal to the step budget when the march ran
	// out of steps.
	Steps int

	// Distance travelled along the ray.
	Distance float32

	// Set when the march converged onto a surface before reaching far.
	Hit bool
}

// RayMarch sphere traces the field along a normalized ray direction. The
// surface tolerance grows with the travelled distance so that far away
// surfaces converge in fewer steps.
func RayMarch(field *scene.Node, origin, dir types.Vec3, steps int, epsilon, far float32) TraceResult {
	var distance float32
	for step := 0; step < steps; step++ {
		d := field.Distance(origin.Add(dir.Mul(distance)))
		if d < epsilon*distance*2 {
			return TraceResult{Steps: step, Distance: distance, Hit: distance < far}
		}
		if distance >= far {
			return TraceResult{Steps: step, Distance: distance}
		}
		distance += d
	}

	return TraceResult{Steps: steps, Distance: distance}
}

// Normal estimates the field gradient at p using central differences with
// tap offset h.
func Normal(field *scene.Node, p types.Vec3, h float32) types.Vec3 {
	dx := types.XYZ(h, 0, 0)
	dy := types.XYZ(0, h, 0)
	dz := types.XYZ(0, 0, h)
	return types.XYZ(
		field.Distance(p.Add(dx))-field.Distance(p.Sub(dx)),
		field.Distance(p.Add(dy))-field.Distance(p.Sub(dy)),
		field.Distance(p.Add(dz))-field.Distance(p.Sub(dz)),
	).Normalize()
}
