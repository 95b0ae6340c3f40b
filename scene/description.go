package scene

import (
	"fmt"

	"github.com/achilleasa/sdfmarch/types"
)

// A serializable description of a distance field node.
type NodeDescription struct {
	Type        string           `json:"type"`
	Origin      *[3]float32      `json:"origin,omitempty"`
	Radius      float32          `json:"radius,omitempty"`
	HalfExtents *[3]float32      `json:"half_extents,omitempty"`
	Left        *NodeDescription `json:"left,omitempty"`
	Right       *NodeDescription `json:"right,omitempty"`
}

type LightDescription struct {
	Position [3]float32 `json:"position"`
	Color    [4]float32 `json:"color"`
}

type PlaneDescription struct {
	Normal [3]float32 `json:"normal"`
	Point  [3]float32 `json:"point"`
}

type CameraDescription struct {
	Eye   [3]float32 `json:"eye"`
	Yaw   float32    `json:"yaw"`
	Pitch float32    `json:"pitch"`
	Focal float32    `json:"focal"`
	Near  float32    `json:"near"`
	Far   float32    `json:"far"`
}

// A serializable description of a scene and the camera looking at it.
type Description struct {
	Field   *NodeDescription   `json:"field"`
	Sky     [4]float32         `json:"sky"`
	Ambient [4]float32         `json:"ambient"`
	Light0  LightDescription   `json:"light0"`
	Floor   *PlaneDescription  `json:"floor,omitempty"`
	Camera  *CameraDescription `json:"camera,omitempty"`
}

var nodeTypeNames = map[NodeType]string{
	SphereNode:       "sphere",
	BoxNode:          "box",
	UnionNode:        "union",
	IntersectionNode: "intersection",
}

// Describe returns a serializable description of the scene and camera.
func Describe(sc *Scene, camera Camera) *Description {
	desc := &Description{
		Field:   describeNode(sc.Field),
		Sky:     sc.SkyColor,
		Ambient: sc.Ambient,
		Light0: LightDescription{
			Position: sc.Light0Position,
			Color:    sc.Light0Color,
		},
		Camera: &CameraDescription{
			Eye:   camera.Eye,
			Yaw:   camera.Yaw,
			Pitch: camera.Pitch,
			Focal: camera.FocalLength,
			Near:  camera.Near,
			Far:   camera.Far,
		},
	}
	if sc.Floor != nil {
		desc.Floor = &PlaneDescription{
			Normal: sc.Floor.Normal,
			Point:  sc.Floor.Point,
		}
	}
	return desc
}

func describeNode(n *Node) *NodeDescription {
	if n == nil {
		return nil
	}

	desc := &NodeDescription{Type: nodeTypeNames[n.Type]}
	switch n.Type {
	case SphereNode:
		origin := [3]float32(n.Origin)
		desc.Origin = &origin
		desc.Radius = n.Dimensions[0]
	case BoxNode:
		origin := [3]float32(n.Origin)
		halfExtents := [3]float32(n.Dimensions)
		desc.Origin = &origin
		desc.HalfExtents = &halfExtents
	default:
		desc.Left = describeNode(n.Left)
		desc.Right = describeNode(n.Right)
	}
	return desc
}

// Build the scene and camera from the description. Missing camera settings
// fall back to the default camera.
func (d *Description) Build() (*Scene, Camera, error) {
	camera := NewCamera()

	field, err := d.Field.build()
	if err != nil {
		return nil, camera, err
	}

	sc := &Scene{
		Field:          field,
		Operation:      OpIntersection,
		SkyColor:       d.Sky,
		Ambient:        d.Ambient,
		Light0Position: d.Light0.Position,
		Light0Color:    d.Light0.Color,
	}
	if field.Type == UnionNode {
		sc.Operation = OpUnion
	}
	if d.Floor != nil {
		sc.Floor = &Plane{
			Normal: d.Floor.Normal,
			Point:  d.Floor.Point,
		}
	}
	if err = sc.Validate(); err != nil {
		return nil, camera, err
	}

	if d.Camera != nil {
		camera.Eye = d.Camera.Eye
		camera.Yaw = d.Camera.Yaw
		camera.Pitch = d.Camera.Pitch
		camera.FocalLength = d.Camera.Focal
		camera.Near = d.Camera.Near
		camera.Far = d.Camera.Far
		camera.Update()
		if err = camera.Validate(); err != nil {
			return nil, camera, err
		}
	}

	return sc, camera, nil
}

func (d *NodeDescription) build() (*Node, error) {
	if d == nil {
		return nil, ErrNilNode
	}

	var origin types.Vec3
	if d.Origin != nil {
		origin = *d.Origin
	}

	switch d.Type {
	case "sphere":
		return Sphere(origin, d.Radius), nil
	case "box":
		if d.HalfExtents == nil {
			return nil, fmt.Errorf("%w: box without half extents", ErrBadDimensions)
		}
		return Box(origin, *d.HalfExtents), nil
	case "union", "intersection":
		left, err := d.Left.build()
		if err != nil {
			return nil, err
		}
		right, err := d.Right.build()
		if err != nil {
			return nil, err
		}
		if d.Type == "union" {
			return Union(left, right), nil
		}
		return Intersection(left, right), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, d.Type)
}
