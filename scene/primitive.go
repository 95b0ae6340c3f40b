package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/achilleasa/sdfmarch/types"
)

type NodeType uint8

const (
	SphereNode NodeType = iota
	BoxNode
	UnionNode
	IntersectionNode
)

var (
	ErrNilNode         = errors.New("scene: nil distance field node")
	ErrMissingChildren = errors.New("scene: composite node requires two children")
	ErrUnexpectedChild = errors.New("scene: primitive node cannot have children")
	ErrBadDimensions   = errors.New("scene: primitive dimensions must be positive")
	ErrUnknownNodeType = errors.New("scene: unknown node type")
)

// A node of the distance field expression tree. Primitive nodes (sphere,
// box) are leaves; union and intersection nodes combine exactly two children.
type Node struct {
	// The node type.
	Type NodeType

	// Primitive origin.
	Origin types.Vec3

	// Primitive dimensions. Spheres use the first component as the radius;
	// boxes store their half extents.
	Dimensions types.Vec3

	// Children of composite nodes.
	Left, Right *Node
}

// Create new sphere primitive.
func Sphere(origin types.Vec3, radius float32) *Node {
	return &Node{
		Type:       SphereNode,
		Origin:     origin,
		Dimensions: types.Vec3{radius},
	}
}

// Create new box primitive with the given half extents.
func Box(origin types.Vec3, halfExtents types.Vec3) *Node {
	return &Node{
		Type:       BoxNode,
		Origin:     origin,
		Dimensions: halfExtents,
	}
}

// Combine two fields keeping the volume covered by either of them.
func Union(a, b *Node) *Node {
	return &Node{Type: UnionNode, Left: a, Right: b}
}

// Combine two fields keeping only the volume covered by both of them.
func Intersection(a, b *Node) *Node {
	return &Node{Type: IntersectionNode, Left: a, Right: b}
}

// Distance returns the signed distance from p to the surface described by
// the tree rooted at n. It is negative inside a solid.
func (n *Node) Distance(p types.Vec3) float32 {
	switch n.Type {
	case SphereNode:
		return p.Sub(n.Origin).Len() - n.Dimensions[0]
	case BoxNode:
		// Cheap box: exact on the faces, underestimates near edges and corners.
		return p.Sub(n.Origin).Abs().Sub(n.Dimensions).MaxComponent()
	case UnionNode:
		return min(n.Left.Distance(p), n.Right.Distance(p))
	case IntersectionNode:
		return max(n.Left.Distance(p), n.Right.Distance(p))
	}
	return 0
}

// Validate checks that the tree is well formed so that Distance can be
// evaluated without further checks in the per-pixel path.
func (n *Node) Validate() error {
	if n == nil {
		return ErrNilNode
	}

	switch n.Type {
	case SphereNode, BoxNode:
		if n.Left != nil || n.Right != nil {
			return ErrUnexpectedChild
		}
		dims := n.Dimensions
		if n.Type == SphereNode {
			dims = types.Vec3{dims[0], dims[0], dims[0]}
		}
		if !(dims[0] > 0 && dims[1] > 0 && dims[2] > 0) {
			return fmt.Errorf("%w: %s", ErrBadDimensions, n)
		}
		return nil
	case UnionNode, IntersectionNode:
		if n.Left == nil || n.Right == nil {
			return ErrMissingChildren
		}
		if err := n.Left.Validate(); err != nil {
			return err
		}
		return n.Right.Validate()
	}

	return fmt.Errorf("%w: %d", ErrUnknownNodeType, n.Type)
}

// Count the primitive leaves of the tree.
func (n *Node) Primitives() int {
	if n == nil {
		return 0
	}
	switch n.Type {
	case UnionNode, IntersectionNode:
		return n.Left.Primitives() + n.Right.Primitives()
	}
	return 1
}

// Clone performs a deep copy of the tree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Left = n.Left.Clone()
	out.Right = n.Right.Clone()
	return &out
}

func (n *Node) String() string {
	var sb strings.Builder
	n.format(&sb)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}

	switch n.Type {
	case SphereNode:
		fmt.Fprintf(sb, "sphere(o=%s, r=%g)", fmtVec3(n.Origin), n.Dimensions[0])
	case BoxNode:
		fmt.Fprintf(sb, "box(o=%s, h=%s)", fmtVec3(n.Origin), fmtVec3(n.Dimensions))
	case UnionNode, IntersectionNode:
		if n.Type == UnionNode {
			sb.WriteString("union(")
		} else {
			sb.WriteString("intersect(")
		}
		n.Left.format(sb)
		sb.WriteString(", ")
		n.Right.format(sb)
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "unknown(%d)", n.Type)
	}
}

func fmtVec3(v types.Vec3) string {
	return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
}
