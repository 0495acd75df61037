package geometry

import (
	"github.com/zeusync/physics2d/internal/core/systems/physics"
)

// Shape is the immutable geometry of a body: its canonical ring and the
// full edge graph over it.
type Shape struct {
	Kind   Kind
	Sides  int
	Radius float64
	Width  float64
	Height float64

	// Center is the local centre of mass.
	Center physics.Vector2

	canonical []Vertex
	edges     []Edge
	boundary  []Edge
	internal  []Edge
}

// NewPolygon builds a regular n-gon of radius r. n == 0 builds the
// circle approximation.
func NewPolygon(n int, r float64) (*Shape, error) {
	kind := KindPolygon
	sides := n
	if n == 0 {
		kind, sides = KindCircle, CircleSides
	}

	vertices, err := Regular(sides, r)
	if err != nil {
		return nil, err
	}

	s := &Shape{
		Kind:      kind,
		Sides:     sides,
		Radius:    r,
		Center:    physics.Vec(r, r),
		canonical: vertices,
	}
	s.buildEdges()
	return s, nil
}

// NewRectangle builds a w×h box. Radius is kept for consumers that need
// a bounding size.
func NewRectangle(w, h, r float64) (*Shape, error) {
	vertices, err := Rectangle(w, h)
	if err != nil {
		return nil, err
	}

	s := &Shape{
		Kind:      KindPolygon,
		Sides:     4,
		Radius:    r,
		Width:     w,
		Height:    h,
		Center:    physics.Vec(w/2, h/2),
		canonical: vertices,
	}
	s.buildEdges()
	return s, nil
}

func (s *Shape) buildEdges() {
	s.edges = Edges(s.Sides)
	s.boundary, s.internal = Partition(s.edges)
}

// IsRectangle reports whether the shape came from explicit width/height.
func (s *Shape) IsRectangle() bool { return s.Width > 0 && s.Height > 0 }

// Canonical returns a copy of the un-rotated ring.
func (s *Shape) Canonical() []Vertex { return append([]Vertex(nil), s.canonical...) }

// Edges returns a copy of all edges.
func (s *Shape) Edges() []Edge { return append([]Edge(nil), s.edges...) }

// Boundary returns a copy of the outline edges.
func (s *Shape) Boundary() []Edge { return append([]Edge(nil), s.boundary...) }

// Internal returns a copy of the diagonals.
func (s *Shape) Internal() []Edge { return append([]Edge(nil), s.internal...) }

// RotatedInto materialises the ring at angle theta into dst.
func (s *Shape) RotatedInto(dst []Vertex, theta float64) []Vertex {
	return Rotate(dst, s.canonical, theta)
}
