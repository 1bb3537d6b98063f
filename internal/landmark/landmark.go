// Package landmark provides the 2D pose landmark types consumed by the planar
// estimator, keyed by semantic joint name.
package landmark

import (
	"sort"

	"github.com/golang/geo/r3"

	"github.com/ayusman/bodyscan/internal/body"
)

// DefaultMinConfidence is the visibility below which a landmark is ignored.
const DefaultMinConfidence = 0.5

// Landmark is one detected anatomical point. X and Y are normalized to the
// image size; Z is an optional relative depth.
type Landmark struct {
	Joint      body.Joint `json:"name"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Z          float64    `json:"z,omitempty"`
	HasZ       bool       `json:"-"`
	Confidence float64    `json:"confidence"`
}

// Set holds the landmarks of one camera view at one instant.
type Set struct {
	ImageWidth  float64
	ImageHeight float64
	Points      map[body.Joint]Landmark
}

// NewSet creates a set for an image of the given pixel size. Non-positive
// sizes are treated as 1, which keeps coordinates in normalized units.
func NewSet(width, height float64, landmarks ...Landmark) *Set {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	s := &Set{
		ImageWidth:  width,
		ImageHeight: height,
		Points:      make(map[body.Joint]Landmark, len(landmarks)),
	}
	for _, l := range landmarks {
		s.Add(l)
	}
	return s
}

// Add inserts or replaces a landmark.
func (s *Set) Add(l Landmark) {
	if s.Points == nil {
		s.Points = make(map[body.Joint]Landmark)
	}
	s.Points[l.Joint] = l
}

// Len returns the number of landmarks.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Get returns the landmark for j if it is present with at least minConf
// confidence.
func (s *Set) Get(j body.Joint, minConf float64) (Landmark, bool) {
	if s == nil {
		return Landmark{}, false
	}
	l, ok := s.Points[j]
	if !ok || l.Confidence < minConf {
		return Landmark{}, false
	}
	return l, true
}

// Pixel returns the landmark position in pixels. The depth component is
// dropped: planar formulas only use image-plane distances.
func (s *Set) Pixel(j body.Joint, minConf float64) (r3.Vector, bool) {
	l, ok := s.Get(j, minConf)
	if !ok {
		return r3.Vector{}, false
	}
	return r3.Vector{X: l.X * s.ImageWidth, Y: l.Y * s.ImageHeight}, true
}

// Pose converts every usable landmark to pixel coordinates divided by
// pixelsPerUnit, producing a pose in the caller's length unit.
func (s *Set) Pose(minConf, pixelsPerUnit float64) body.Pose {
	p := make(body.Pose, s.Len())
	if s == nil || pixelsPerUnit <= 0 {
		return p
	}
	for j := range s.Points {
		if v, ok := s.Pixel(j, minConf); ok {
			p[j] = v.Mul(1 / pixelsPerUnit)
		}
	}
	return p
}

// Mirror returns a copy with every bilateral landmark moved to the opposite
// side's name. Coordinates are untouched.
func (s *Set) Mirror() *Set {
	out := NewSet(s.ImageWidth, s.ImageHeight)
	for j, l := range s.Points {
		l.Joint = j.Mirror()
		out.Add(l)
	}
	return out
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	out := NewSet(s.ImageWidth, s.ImageHeight)
	for _, l := range s.Points {
		out.Add(l)
	}
	return out
}

func (s *Set) sortedJoints() []body.Joint {
	joints := make([]body.Joint, 0, len(s.Points))
	for j := range s.Points {
		joints = append(joints, j)
	}
	sort.Slice(joints, func(a, b int) bool { return joints[a] < joints[b] })
	return joints
}
