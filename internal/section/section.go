// Package section cuts thin slabs out of a point cloud and fits an ellipse to
// the cross-section to estimate a girth.
package section

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/bodyscan/internal/geometry"
)

// DefaultMinPoints is the smallest slice an ellipse is fitted to.
const DefaultMinPoints = 8

var up = r3.Vector{Y: 1}

// Plane is a slab of the given thickness centred on Center and
// perpendicular to Axis. A positive MaxRadius keeps only points within that
// distance of Center inside the slab.
type Plane struct {
	Center    r3.Vector
	Axis      r3.Vector
	Thickness float64
	MaxRadius float64
}

// Horizontal returns the slab at height y.
func Horizontal(y, thickness float64) Plane {
	return Plane{Center: r3.Vector{Y: y}, Axis: up, Thickness: thickness}
}

// basis returns two unit vectors spanning the plane. For a vertical axis
// they are X and Z.
func (p Plane) basis() (u, w r3.Vector) {
	n := p.Axis.Normalize()
	if n.Norm() == 0 || math.Abs(n.Dot(up)) > 1-1e-9 {
		return r3.Vector{X: 1}, r3.Vector{Z: 1}
	}
	u = up.Cross(n).Normalize()
	w = n.Cross(u)
	return u, w
}

// Slice returns the in-plane coordinates of the points inside the slab.
func (p Plane) Slice(points []r3.Vector) []r2.Point {
	n := p.Axis.Normalize()
	if n.Norm() == 0 {
		n = up
	}
	u, w := p.basis()
	half := p.Thickness / 2

	var out []r2.Point
	for _, pt := range points {
		d := pt.Sub(p.Center)
		if math.Abs(d.Dot(n)) > half {
			continue
		}
		q := r2.Point{X: d.Dot(u), Y: d.Dot(w)}
		if p.MaxRadius > 0 && q.Norm() > p.MaxRadius {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Ellipse is a cross-section fit. A and B are the largest and smallest
// distances of the slice points from their centroid.
type Ellipse struct {
	Center r2.Point
	A      float64
	B      float64
	// StdDev of the radial distances; zero for a perfect circle.
	StdDev float64
	Points int
}

// FitEllipse fits the slice points. It fails when fewer than minPoints
// points are given.
func FitEllipse(points []r2.Point, minPoints int) (Ellipse, bool) {
	if minPoints < 3 {
		minPoints = 3
	}
	if len(points) < minPoints {
		return Ellipse{Points: len(points)}, false
	}

	var c r2.Point
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(len(points)))

	radii := make([]float64, len(points))
	e := Ellipse{Center: c, B: math.Inf(1), Points: len(points)}
	for i, p := range points {
		r := p.Sub(c).Norm()
		radii[i] = r
		e.A = math.Max(e.A, r)
		e.B = math.Min(e.B, r)
	}
	_, e.StdDev = stat.MeanStdDev(radii, nil)
	if e.A <= 0 {
		return e, false
	}
	return e, true
}

// Circumference returns the Ramanujan perimeter of the fit.
func (e Ellipse) Circumference() float64 {
	return geometry.EllipseCircumference(e.A, e.B)
}

// Girth slices points with plane and returns the fitted circumference in the
// points' unit.
func Girth(points []r3.Vector, plane Plane, minPoints int) (float64, bool) {
	e, ok := FitEllipse(plane.Slice(points), minPoints)
	if !ok {
		return 0, false
	}
	return e.Circumference(), true
}

// CircumferenceAt returns the girth of the horizontal slab at heightY.
func CircumferenceAt(points []r3.Vector, heightY, thickness float64) (float64, bool) {
	return Girth(points, Horizontal(heightY, thickness), DefaultMinPoints)
}
