package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/achilleasa/sdfmarch/types"
)

var ErrNoField = errors.New("scene: no distance field defined")

// Operation selects how the two children of the root field node are combined.
type Operation int

const (
	OpIntersection Operation = iota
	OpUnion
)

func (op Operation) String() string {
	switch op {
	case OpIntersection:
		return "intersection"
	case OpUnion:
		return "union"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Parse an operation name.
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(name) {
	case "intersection", "intersect":
		return OpIntersection, nil
	case "union":
		return OpUnion, nil
	}
	return OpIntersection, fmt.Errorf("scene: unknown operation %q; expected intersection or union", name)
}

// An infinite plane defined by its normal and a point on it.
type Plane struct {
	Normal types.Vec3
	Point  types.Vec3
}

// The scene has no explicit geometry list; all solids are composed in the
// distance field. Lighting and colour parameters mirror the uniforms that an
// equivalent fragment shader would receive.
type Scene struct {
	Field     *Node
	Operation Operation

	SkyColor types.Color
	Ambient  types.Color

	Light0Position types.Vec3
	Light0Color    types.Color

	// An analytic ground plane; nil disables it.
	Floor *Plane
}

// Build the reference field: a sphere combined with a box, both centered at
// the origin.
func DefaultField(op Operation) *Node {
	sphere := Sphere(types.Vec3{}, 0.6)
	box := Box(types.Vec3{}, types.XYZ(0.45, 0.45, 0.45))
	if op == OpUnion {
		return Union(sphere, box)
	}
	return Intersection(sphere, box)
}

// Create the default scene. The floor passes through the bottom face of the
// default solid so that it appears to rest on the ground.
func NewDefaultScene() *Scene {
	return &Scene{
		Field:          DefaultField(OpIntersection),
		Operation:      OpIntersection,
		SkyColor:       types.XYZW(0.31, 0.47, 0.67, 1.0),
		Ambient:        types.XYZW(0.15, 0.20, 0.32, 1.0),
		Light0Position: types.XYZ(0.25, 4.0, 0.0),
		Light0Color:    types.XYZW(0.67, 0.87, 0.93, 1.0),
		Floor: &Plane{
			Normal: types.XYZ(0, 1, 0),
			Point:  types.XYZ(0, -0.45, 0),
		},
	}
}

// SetOperation updates the operation selector and applies it to the root
// node of the field. Fields with a primitive root are left untouched.
func (s *Scene) SetOperation(op Operation) error {
	var nodeType NodeType
	switch op {
	case OpIntersection:
		nodeType = IntersectionNode
	case OpUnion:
		nodeType = UnionNode
	default:
		return fmt.Errorf("scene: unsupported operation %d", int(op))
	}

	s.Operation = op
	if s.Field != nil && (s.Field.Type == UnionNode || s.Field.Type == IntersectionNode) {
		s.Field.Type = nodeType
	}
	return nil
}

// Clone returns a deep copy of the scene that can be safely read while the
// original is being edited.
func (s *Scene) Clone() *Scene {
	out := *s
	out.Field = s.Field.Clone()
	if s.Floor != nil {
		floor := *s.Floor
		out.Floor = &floor
	}
	return &out
}

// Validate checks the scene field and floor definition.
func (s *Scene) Validate() error {
	if s.Field == nil {
		return ErrNoField
	}
	if err := s.Field.Validate(); err != nil {
		return fmt.Errorf("scene: invalid distance field: %w", err)
	}
	if s.Floor != nil && s.Floor.Normal.Len() == 0 {
		return errors.New("scene: floor normal must be non-zero")
	}
	return nil
}
