package cpu

import (
	"github.com/achilleasa/sdfmarch/tracer"
	"github.com/achilleasa/sdfmarch/types"
)

// The surface a primary ray resolved to.
type Surface uint8

const (
	SurfaceSky Surface = iota
	SurfaceFloor
	SurfaceObject
)

func (s Surface) String() string {
	switch s {
	case SurfaceFloor:
		return "floor"
	case SurfaceObject:
		return "object"
	}
	return "sky"
}

// The shaded result for a single pixel.
type Fragment struct {
	Color   types.Color
	Surface Surface

	// Primary ray march steps.
	Steps int

	// Ray parameter of the resolved surface; zero for sky.
	Distance float32
}

// PixelNDC maps the centre of pixel (x, y) to normalized device coordinates.
// The top row gets the largest v.
func PixelNDC(x, y, frameW, frameH uint32) (u, v float32) {
	u = 2*(float32(x)+0.5)/float32(frameW) - 1
	v = 1 - 2*(float32(y)+0.5)/float32(frameH)
	return u, v
}

// ShadeFragment resolves and shades the primary ray through (u, v).
func ShadeFragment(state *tracer.FrameState, u, v float32) Fragment {
	cam := &state.Camera
	sc := state.Scene
	params := state.Params

	origin := cam.Eye
	dir := cam.RayDirection(u, v, state.AspectRatio)

	res := RayMarch(sc.Field, origin, dir, params.Steps, params.Epsilon, cam.Far)
	objectHit := res.Hit && res.Distance >= cam.Near && res.Distance < cam.Far

	var floorT float32
	var floorHit bool
	if sc.Floor != nil {
		floorT = IntersectFloor(origin, dir, sc.Floor.Normal, sc.Floor.Point)
		floorHit = FloorHitValid(floorT, cam.Near, cam.Far)
	}

	frag := Fragment{
		Color:   sc.SkyColor,
		Surface: SurfaceSky,
		Steps:   res.Steps,
	}

	var normal types.Vec3
	var texture float32 = 1
	switch {
	// The floor must be closer than wherever the trace stopped; a trace that
	// ran out of steps short of the floor leaves the sky.
	case floorHit && floorT < res.Distance:
		frag.Surface = SurfaceFloor
		frag.Distance = floorT
		normal = sc.Floor.Normal.Normalize()
		p := origin.Add(dir.Mul(floorT))
		texture = FloorTexture(p) * ContourOverlay(sc.Field, p, params)
		if state.Mode == tracer.Lit {
			frag.Color = Shade(sc.Field, p, normal, sc.Light0Position, sc.Light0Color, sc.Ambient, params).Mul(texture)
		}
	case objectHit:
		frag.Surface = SurfaceObject
		frag.Distance = res.Distance
		p := origin.Add(dir.Mul(res.Distance))
		normal = Normal(sc.Field, p, params.NormalOffset)
		if state.Mode == tracer.Lit {
			frag.Color = Shade(sc.Field, p, normal, sc.Light0Position, sc.Light0Color, sc.Ambient, params)
		}
	}

	switch state.Mode {
	case tracer.Depth:
		if frag.Surface != SurfaceSky {
			z := types.MapTo(frag.Distance, cam.Near, cam.Far, 1, 0) * texture
			frag.Color = types.Splat4(z)
		}
	case tracer.Normals:
		if frag.Surface != SurfaceSky {
			frag.Color = normal.Mul(0.5).Add(types.XYZ(0.5, 0.5, 0.5)).Vec4(1)
		}
	case tracer.Steps:
		heat := float32(res.Steps) / float32(params.Steps)
		frag.Color = types.XYZW(heat, heat*heat, 1-heat, 1)
	}

	// Surfaces are opaque regardless of texture scaling.
	if frag.Surface != SurfaceSky {
		frag.Color[3] = 1
	}

	return frag
}
