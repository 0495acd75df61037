package physics

import (
	"errors"
	"math"
)

var (
	ErrZeroVector   = errors.New("zero-length vector")
	ErrDivideByZero = errors.New("division by zero component")
)

// Vector2 is a plain 2D coordinate pair.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vec creates a Vector2.
func Vec(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

// Add sums every operand component-wise.
func Add(a, b Vector2, rest ...Vector2) Vector2 {
	out := Vector2{X: a.X + b.X, Y: a.Y + b.Y}
	for _, v := range rest {
		out.X += v.X
		out.Y += v.Y
	}
	return out
}

// Sub subtracts b and every following operand from a, in order.
func Sub(a, b Vector2, rest ...Vector2) Vector2 {
	out := Vector2{X: a.X - b.X, Y: a.Y - b.Y}
	for _, v := range rest {
		out.X -= v.X
		out.Y -= v.Y
	}
	return out
}

// Mul multiplies every operand component-wise.
func Mul(a, b Vector2, rest ...Vector2) Vector2 {
	out := Vector2{X: a.X * b.X, Y: a.Y * b.Y}
	for _, v := range rest {
		out.X *= v.X
		out.Y *= v.Y
	}
	return out
}

// Div divides a by b and every following operand, in order. A zero
// component yields ±Inf or NaN; use DivChecked to reject it.
func Div(a, b Vector2, rest ...Vector2) Vector2 {
	out := Vector2{X: a.X / b.X, Y: a.Y / b.Y}
	for _, v := range rest {
		out.X /= v.X
		out.Y /= v.Y
	}
	return out
}

// DivChecked is Div that refuses any divisor with a zero component.
func DivChecked(a, b Vector2, rest ...Vector2) (Vector2, error) {
	if b.X == 0 || b.Y == 0 {
		return Vector2{}, ErrDivideByZero
	}
	for _, v := range rest {
		if v.X == 0 || v.Y == 0 {
			return Vector2{}, ErrDivideByZero
		}
	}
	return Div(a, b, rest...), nil
}

// Magnitude returns the euclidean length of v.
func Magnitude(v Vector2) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize scales v to unit length. The zero vector produces NaN
// components; callers must guard against it or use NormalizeChecked.
func Normalize(v Vector2) Vector2 {
	m := Magnitude(v)
	return Vector2{X: v.X / m, Y: v.Y / m}
}

// NormalizeChecked is Normalize returning ErrZeroVector for the zero vector.
func NormalizeChecked(v Vector2) (Vector2, error) {
	if v.X == 0 && v.Y == 0 {
		return Vector2{}, ErrZeroVector
	}
	return Normalize(v), nil
}

// MagnitudeM returns the magnitude of each vector, preserving order.
func MagnitudeM(vs []Vector2) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = Magnitude(v)
	}
	return out
}

// NormalizeM normalizes each vector, preserving order.
func NormalizeM(vs []Vector2) []Vector2 {
	out := make([]Vector2, len(vs))
	for i, v := range vs {
		out[i] = Normalize(v)
	}
	return out
}

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale multiplies both components by k.
func (v Vector2) Scale(k float64) Vector2 { return Vector2{X: v.X * k, Y: v.Y * k} }

func (v Vector2) Dot(o Vector2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vector2) Cross(o Vector2) float64 { return v.X*o.Y - v.Y*o.X }

// Perpendicular returns v rotated a quarter turn counter-clockwise.
func (v Vector2) Perpendicular() Vector2 { return Vector2{X: -v.Y, Y: v.X} }

// IsZero reports whether both components are exactly zero.
func (v Vector2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
