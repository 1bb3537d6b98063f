// Package skeleton holds 3D joint frames captured during a rotation scan and
// the temporal averaging that turns them into one stable skeleton.
package skeleton

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/bodyscan/internal/body"
)

// Intrinsics are pinhole camera parameters in pixels.
type Intrinsics struct {
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
	Cx float64 `json:"cx"`
	Cy float64 `json:"cy"`
}

// MaxDepthSide bounds each dimension of a depth grid.
const MaxDepthSide = 4096

// DepthSurface is a metric depth grid aligned with the frame's skeleton.
// Rotation (row-major) and Translation map camera coordinates into the body
// frame; an all-zero Rotation is the identity.
type DepthSurface struct {
	Width       int
	Height      int
	Values      []float64
	Intrinsics  Intrinsics
	Rotation    [9]float64
	Translation r3.Vector
}

// Complete reports whether the grid has a bounded size and exactly one
// value per pixel.
func (d *DepthSurface) Complete() bool {
	return d.Width > 0 && d.Height > 0 &&
		d.Width <= MaxDepthSide && d.Height <= MaxDepthSide &&
		len(d.Values) == d.Width*d.Height
}

// At returns the depth at pixel (u, v), or NaN when out of bounds.
func (d *DepthSurface) At(u, v int) float64 {
	if u < 0 || v < 0 || u >= d.Width || v >= d.Height {
		return math.NaN()
	}
	i := v*d.Width + u
	if i >= len(d.Values) {
		return math.NaN()
	}
	return d.Values[i]
}

// Unproject back-projects pixel (u, v) at depth z into camera coordinates
// with Y up.
func (d *DepthSurface) Unproject(u, v int, z float64) r3.Vector {
	in := d.Intrinsics
	return r3.Vector{
		X: (float64(u) - in.Cx) * z / in.Fx,
		Y: -(float64(v) - in.Cy) * z / in.Fy,
		Z: z,
	}
}

// ToBody maps a camera-space point into the body frame.
func (d *DepthSurface) ToBody(p r3.Vector) r3.Vector {
	if d.Rotation == ([9]float64{}) {
		return p.Add(d.Translation)
	}
	r := d.Rotation
	return r3.Vector{
		X: r[0]*p.X + r[1]*p.Y + r[2]*p.Z,
		Y: r[3]*p.X + r[4]*p.Y + r[5]*p.Z,
		Z: r[6]*p.X + r[7]*p.Y + r[8]*p.Z,
	}.Add(d.Translation)
}

// RotationY returns the row-major rotation of angle radians about the
// vertical axis.
func RotationY(angle float64) [9]float64 {
	s, c := math.Sincos(angle)
	return [9]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// Frame is one capture instant: joint positions in metres in the body
// frame, plus an optional depth surface.
type Frame struct {
	Timestamp float64
	Joints    map[body.Joint]r3.Vector
	Depth     *DepthSurface
	// DepthFile names an external depth image to be loaded by the caller
	// when Depth is not inline.
	DepthFile string
}

// Pose returns the joints scaled to centimetres.
func (f Frame) Pose() body.Pose {
	p := make(body.Pose, len(f.Joints))
	for j, v := range f.Joints {
		p[j] = v.Mul(100)
	}
	return p
}
