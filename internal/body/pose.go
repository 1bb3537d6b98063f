package body

import (
	"github.com/golang/geo/r3"

	"github.com/ayusman/bodyscan/internal/geometry"
)

// Pose maps joints to positions. Both estimators build poses in centimetres
// so that every formula in this package yields centimetres directly.
type Pose map[Joint]r3.Vector

// Get returns the position of j.
func (p Pose) Get(j Joint) (r3.Vector, bool) {
	v, ok := p[j]
	return v, ok
}

// Has reports whether all the given joints are present.
func (p Pose) Has(joints ...Joint) bool {
	for _, j := range joints {
		if _, ok := p[j]; !ok {
			return false
		}
	}
	return true
}

// Distance returns the distance between two joints.
func (p Pose) Distance(a, b Joint) (float64, bool) {
	pa, okA := p[a]
	pb, okB := p[b]
	if !okA || !okB {
		return 0, false
	}
	return geometry.Distance(pa, pb), true
}

// Path returns the length of the polyline through the given joints.
func (p Pose) Path(joints ...Joint) (float64, bool) {
	points := make([]r3.Vector, 0, len(joints))
	for _, j := range joints {
		v, ok := p[j]
		if !ok {
			return 0, false
		}
		points = append(points, v)
	}
	return geometry.PathLength(points...), true
}

// Midpoint returns the point halfway between two joints.
func (p Pose) Midpoint(a, b Joint) (r3.Vector, bool) {
	pa, okA := p[a]
	pb, okB := p[b]
	if !okA || !okB {
		return r3.Vector{}, false
	}
	return geometry.Midpoint(pa, pb), true
}

// Center returns the midpoint of a bilateral pair, or whichever of the pair
// is present.
func (p Pose) Center(a, b Joint) (r3.Vector, bool) {
	if mid, ok := p.Midpoint(a, b); ok {
		return mid, true
	}
	if v, ok := p[a]; ok {
		return v, true
	}
	v, ok := p[b]
	return v, ok
}

// Bilateral evaluates f for both body sides and averages the results that
// succeeded. Averaging keeps left/right swapped inputs producing identical
// output.
func (p Pose) Bilateral(f func(s Side) (float64, bool)) (float64, bool) {
	var sum float64
	var n int
	for _, s := range Sides {
		if v, ok := f(s); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
