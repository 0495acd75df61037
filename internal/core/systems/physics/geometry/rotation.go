package geometry

import "math"

// WrapAngle maps any finite angle into [0, 2π).
func WrapAngle(theta float64) float64 {
	theta = math.Mod(theta, fullTurn)
	if theta < 0 {
		theta += fullTurn
	}
	if theta >= fullTurn {
		theta = 0
	}
	return theta
}

// Rotate writes src rotated by theta about the local origin into dst and
// returns it. dst is grown when shorter than src; ids are carried over.
func Rotate(dst, src []Vertex, theta float64) []Vertex {
	if cap(dst) < len(src) {
		dst = make([]Vertex, len(src))
	}
	dst = dst[:len(src)]

	sin, cos := math.Sincos(theta)
	for i, v := range src {
		dst[i] = v
		dst[i].X = v.X*cos - v.Y*sin
		dst[i].Y = v.Y*cos + v.X*sin
	}
	return dst
}
