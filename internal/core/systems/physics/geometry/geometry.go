// Package geometry builds vertex rings and edge graphs for convex bodies
// and rotates them. Everything here is pure: inputs are never modified.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/zeusync/physics2d/internal/core/systems/physics"
)

// CircleSides is the polygon used to approximate a circle.
const CircleSides = 30

const fullTurn = 2 * math.Pi

var (
	ErrInvalidSides  = errors.New("polygon needs at least 3 sides")
	ErrInvalidRadius = errors.New("radius must be positive and finite")
	ErrInvalidSize   = errors.New("width and height must be positive and finite")
)

// Kind is the shape classification reported to consumers.
type Kind uint8

const (
	KindPolygon Kind = iota
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindCircle:
		return "circle"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Vertex is a point of a ring tagged with its canonical ring position.
type Vertex struct {
	physics.Vector2
	ID int `json:"id"`
}

// Edge joins two vertices by id. Boundary edges join cyclic neighbours,
// every other pair is internal.
type Edge struct {
	A        int  `json:"a"`
	B        int  `json:"b"`
	Internal bool `json:"internal"`
}

// Regular returns the n vertices of a regular polygon of radius r centred
// on the local origin, sorted by id. Vertex k sits at angle 2πk/n, so id 0
// is always (r, 0). Mirror images about the x axis share one sin/cos pair.
func Regular(n int, r float64) ([]Vertex, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSides, n)
	}
	if !(r > 0) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, r)
	}

	a := fullTurn / float64(n)
	vertices := make([]Vertex, 0, n)
	vertices = append(vertices, Vertex{Vector2: physics.Vec(r, 0), ID: 0})

	half := (n - 1) / 2
	if n%2 == 0 {
		half = (n - 2) / 2
		vertices = append(vertices, Vertex{Vector2: physics.Vec(-r, 0), ID: n / 2})
	}

	for i := 1; i <= half; i++ {
		sin, cos := math.Sincos(a * float64(i))
		x, y := r*cos, r*sin
		vertices = append(vertices,
			Vertex{Vector2: physics.Vec(x, y), ID: i},
			Vertex{Vector2: physics.Vec(x, -y), ID: n - i},
		)
	}

	sort.Slice(vertices, func(i, j int) bool { return vertices[i].ID < vertices[j].ID })
	return vertices, nil
}

// Rectangle returns the four axis-aligned corners of a w×h box with one
// corner on the origin, in clockwise order.
func Rectangle(w, h float64) ([]Vertex, error) {
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: got %vx%v", ErrInvalidSize, w, h)
	}
	return []Vertex{
		{Vector2: physics.Vec(0, 0), ID: 0},
		{Vector2: physics.Vec(0, h), ID: 1},
		{Vector2: physics.Vec(w, h), ID: 2},
		{Vector2: physics.Vec(w, 0), ID: 3},
	}, nil
}

// Adjacent reports whether ids a and b are neighbours on an n-ring.
func Adjacent(a, b, n int) bool {
	if a > b {
		a, b = b, a
	}
	return b-a == 1 || (a == 0 && b == n-1)
}

// Edges returns every unordered vertex pair of an n-ring, ordered by
// (A, B) with A < B, flagged boundary or internal.
func Edges(n int) []Edge {
	if n < 2 {
		return nil
	}
	edges := make([]Edge, 0, n*(n-1)/2)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			edges = append(edges, Edge{A: a, B: b, Internal: !Adjacent(a, b, n)})
		}
	}
	return edges
}

// Partition splits edges into boundary and internal, keeping order.
func Partition(edges []Edge) (boundary, internal []Edge) {
	for _, e := range edges {
		if e.Internal {
			internal = append(internal, e)
		} else {
			boundary = append(boundary, e)
		}
	}
	return boundary, internal
}
