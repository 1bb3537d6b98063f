// Package geometry provides the numeric primitives shared by both body
// measurement estimators: distances, midpoints and ellipse perimeters.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// epsilon is the smallest span treated as non-degenerate.
const epsilon = 1e-12

// Distance returns the Euclidean distance between two points.
func Distance(a, b r3.Vector) float64 {
	return a.Sub(b).Norm()
}

// Distance2D returns the Euclidean distance between two points projected onto
// the XY plane.
func Distance2D(a, b r3.Vector) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r3.Vector) r3.Vector {
	return a.Add(b).Mul(0.5)
}

// Mean returns the centroid of the given points, or the zero vector when
// points is empty.
func Mean(points []r3.Vector) r3.Vector {
	if len(points) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// EllipseCircumference approximates the perimeter of an ellipse with
// semi-axes a and b using Ramanujan's second approximation:
//
//	C ≈ π(a+b)(1 + 3h/(10+√(4−3h))),  h = ((a−b)/(a+b))²
//
// Negative or non-finite axes are treated as zero. The result for a == b is
// exactly 2πa.
func EllipseCircumference(a, b float64) float64 {
	a = sanitize(a)
	b = sanitize(b)
	sum := a + b
	if sum < epsilon {
		return 0
	}
	h := (a - b) / sum
	h *= h
	return math.Pi * sum * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

// PathLength returns the length of the polyline through the given points.
func PathLength(points ...r3.Vector) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sanitize(v float64) float64 {
	if !Finite(v) || v < 0 {
		return 0
	}
	return v
}
