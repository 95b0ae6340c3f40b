package scene

import (
	"errors"
	"fmt"

	"github.com/achilleasa/sdfmarch/types"
)

var ErrInvalidCamera = errors.New("scene: invalid camera")

type CameraDirection uint8

const (
	MoveForward CameraDirection = iota
	MoveBackward
	MoveLeft
	MoveRight
)

// The camera type controls the scene camera. Its orientation is defined by
// two free angles; the orthonormal basis is derived from them by Update so
// that repeated rotations never accumulate drift.
type Camera struct {
	Eye types.Vec3

	// Rotation around the world up axis and around the camera right axis,
	// in radians. A positive pitch tilts the view downwards.
	Yaw   float32
	Pitch float32

	// The distance between the eye and the image plane. Larger values
	// narrow the field of view.
	FocalLength float32

	// Clip distances along the view ray.
	Near float32
	Far  float32

	// Derived orthonormal basis. Only valid after a call to Update.
	Up      types.Vec3
	Right   types.Vec3
	Forward types.Vec3
}

// Create a camera at (0, 0, -2) looking down +z.
func NewCamera() Camera {
	c := Camera{
		Eye:         types.XYZ(0, 0, -2),
		FocalLength: 1.67,
		Near:        0,
		Far:         150,
	}
	c.Update()
	return c
}

// Update recomputes the camera basis from the yaw and pitch angles.
func (c *Camera) Update() {
	yawQuat := types.QuatFromAxisAngle(types.AxisY, c.Yaw)
	pitchQuat := types.QuatFromAxisAngle(types.AxisX, c.Pitch)
	orientQuat := yawQuat.Mul(pitchQuat).Normalize()

	c.Forward = orientQuat.Rotate(types.AxisZ).Normalize()
	c.Right = yawQuat.Rotate(types.AxisX).Normalize()
	c.Up = c.Forward.Cross(c.Right).Normalize()
}

// Rotate adjusts the camera angles and recomputes the basis.
func (c *Camera) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.Update()
}

// Move the camera eye along its basis vectors.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	switch dir {
	case MoveForward:
		c.Eye = c.Eye.Add(c.Forward.Mul(amount))
	case MoveBackward:
		c.Eye = c.Eye.Sub(c.Forward.Mul(amount))
	case MoveLeft:
		c.Eye = c.Eye.Sub(c.Right.Mul(amount))
	case MoveRight:
		c.Eye = c.Eye.Add(c.Right.Mul(amount))
	}
}

// RayDirection returns the normalized direction of the ray through the
// normalized device coordinates (u, v), both in [-1, 1] with v pointing up.
func (c *Camera) RayDirection(u, v, aspectRatio float32) types.Vec3 {
	return c.Forward.Mul(c.FocalLength).
		Add(c.Right.Mul(u * aspectRatio)).
		Add(c.Up.Mul(v)).
		Normalize()
}

// Validate checks the camera projection parameters.
func (c *Camera) Validate() error {
	if !(c.FocalLength > 0) {
		return fmt.Errorf("%w: focal length must be positive; got %g", ErrInvalidCamera, c.FocalLength)
	}
	if c.Near < 0 || !(c.Near < c.Far) {
		return fmt.Errorf("%w: expected 0 <= near < far; got near=%g far=%g", ErrInvalidCamera, c.Near, c.Far)
	}
	if !c.Eye.IsFinite() {
		return fmt.Errorf("%w: eye position must be finite", ErrInvalidCamera)
	}
	return nil
}

func (c Camera) String() string {
	return fmt.Sprintf(
		"eye=(%3.3f, %3.3f, %3.3f) yaw=%3.3f pitch=%3.3f focal=%3.3f near=%g far=%g",
		c.Eye[0], c.Eye[1], c.Eye[2], c.Yaw, c.Pitch, c.FocalLength, c.Near, c.Far,
	)
}
