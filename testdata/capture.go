package testdata

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/bodyscan/internal/body"
	"github.com/ayusman/bodyscan/internal/skeleton"
)

// Girths of the synthetic subject's body geometry, in centimetres.
var SubjectGirthsCm = map[string]float64{
	"neck_circumference":    2 * math.Pi * 6,
	"chest_circumference":   ellipse(17, 11.5),
	"waist_circumference":   ellipse(15, 11),
	"hip_circumference":     ellipse(18, 13),
	"bicep_circumference":   2 * math.Pi * 4.5,
	"forearm_circumference": 2 * math.Pi * 4,
	"wrist_circumference":   2 * math.Pi * 2.8,
	"thigh_circumference":   2 * math.Pi * 8,
	"calf_circumference":    2 * math.Pi * 6,
	"ankle_circumference":   2 * math.Pi * 4,
}

func ellipse(a, b float64) float64 {
	return math.Pi * (3*(a+b) - math.Sqrt((3*a+b)*(a+3*b)))
}

// subjectJoints is the T-posed subject in metres, x to the subject's left.
var subjectJoints = map[body.Joint]r3.Vector{
	body.Head:           {Y: 1.65},
	body.Neck:           {Y: 1.52},
	body.Chest:          {Y: 1.32},
	body.Spine:          {Y: 1.10},
	body.Pelvis:         {Y: 0.92},
	body.LeftShoulder:   {X: 0.19, Y: 1.40},
	body.RightShoulder:  {X: -0.19, Y: 1.40},
	body.LeftElbow:      {X: 0.46, Y: 1.40},
	body.RightElbow:     {X: -0.46, Y: 1.40},
	body.LeftWrist:      {X: 0.73, Y: 1.40},
	body.RightWrist:     {X: -0.73, Y: 1.40},
	body.LeftHip:        {X: 0.10, Y: 0.90},
	body.RightHip:       {X: -0.10, Y: 0.90},
	body.LeftKnee:       {X: 0.10, Y: 0.50},
	body.RightKnee:      {X: -0.10, Y: 0.50},
	body.LeftAnkle:      {X: 0.10, Y: 0.08},
	body.RightAnkle:     {X: -0.10, Y: 0.08},
	body.LeftFootIndex:  {X: 0.10, Y: 0, Z: 0.12},
	body.RightFootIndex: {X: -0.10, Y: 0, Z: 0.12},
}

type shape interface {
	// hit returns the ray parameter of the first surface crossing.
	hit(o, d r3.Vector) (float64, bool)
}

// column is a vertical elliptic cylinder without caps.
type column struct {
	cx, cz, y0, y1, a, b float64
}

func (c column) hit(o, d r3.Vector) (float64, bool) {
	px, qx := (o.X-c.cx)/c.a, d.X/c.a
	pz, qz := (o.Z-c.cz)/c.b, d.Z/c.b
	t, ok := entry(qx*qx+qz*qz, 2*(px*qx+pz*qz), px*px+pz*pz-1)
	if !ok {
		return 0, false
	}
	if y := o.Y + t*d.Y; y < c.y0 || y > c.y1 {
		return 0, false
	}
	return t, true
}

// rod is a circular cylinder between two points, without caps.
type rod struct {
	a, b r3.Vector
	r    float64
}

func (c rod) hit(o, d r3.Vector) (float64, bool) {
	axis := c.b.Sub(c.a)
	length := axis.Norm()
	u := axis.Mul(1 / length)
	w := o.Sub(c.a)
	dp := d.Sub(u.Mul(d.Dot(u)))
	wp := w.Sub(u.Mul(w.Dot(u)))
	t, ok := entry(dp.Dot(dp), 2*dp.Dot(wp), wp.Dot(wp)-c.r*c.r)
	if !ok {
		return 0, false
	}
	if s := w.Add(d.Mul(t)).Dot(u); s < 0 || s > length {
		return 0, false
	}
	return t, true
}

// entry returns the smaller positive root of a·t² + b·t + c.
func entry(a, b, c float64) (float64, bool) {
	if a < 1e-12 {
		return 0, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	return t, t > 0
}

func subjectShapes() []shape {
	shapes := []shape{
		column{y0: 1.56, y1: 1.75, a: 0.08, b: 0.095},
		column{y0: 1.45, y1: 1.56, a: 0.06, b: 0.06},
		column{y0: 1.20, y1: 1.45, a: 0.17, b: 0.115},
		column{y0: 1.00, y1: 1.20, a: 0.15, b: 0.11},
		column{y0: 0.80, y1: 1.00, a: 0.18, b: 0.13},
	}
	for _, s := range []float64{1, -1} {
		shapes = append(shapes,
			column{cx: 0.10 * s, y0: 0.50, y1: 0.80, a: 0.08, b: 0.08},
			column{cx: 0.10 * s, y0: 0.14, y1: 0.50, a: 0.06, b: 0.06},
			column{cx: 0.10 * s, y0: 0.02, y1: 0.14, a: 0.04, b: 0.04},
			rod{a: r3.Vector{X: 0.12 * s, Y: 1.40}, b: r3.Vector{X: 0.46 * s, Y: 1.40}, r: 0.045},
			rod{a: r3.Vector{X: 0.46 * s, Y: 1.40}, b: r3.Vector{X: 0.70 * s, Y: 1.40}, r: 0.04},
			rod{a: r3.Vector{X: 0.70 * s, Y: 1.40}, b: r3.Vector{X: 0.85 * s, Y: 1.40}, r: 0.028},
		)
	}
	return shapes
}

// Camera used by RotationCapture.
const (
	captureWidth    = 200
	captureHeight   = 240
	captureDistance = 2.5
	captureEyeY     = 1.40
)

var captureIntrinsics = skeleton.Intrinsics{Fx: 280, Fy: 280, Cx: 100, Cy: 69}

// RotationCapture renders n frames of a camera orbiting the subject at
// shoulder height. Each frame carries the subject's joints with a few
// millimetres of tracking jitter and a depth surface whose transform maps
// camera space into the body frame.
func RotationCapture(n int) []skeleton.Frame {
	shapes := subjectShapes()
	frames := make([]skeleton.Frame, n)
	for i := range frames {
		theta := 2 * math.Pi * float64(i) / float64(n)
		frames[i] = skeleton.Frame{
			Timestamp: float64(i) / 10,
			Joints:    jittered(i),
			Depth:     render3D(shapes, theta),
		}
	}
	return frames
}

// SkeletonOnly returns n frames with joints but no depth.
func SkeletonOnly(n int) []skeleton.Frame {
	frames := make([]skeleton.Frame, n)
	for i := range frames {
		frames[i] = skeleton.Frame{Timestamp: float64(i) / 10, Joints: jittered(i)}
	}
	return frames
}

// jittered offsets every joint by a deterministic amount that cancels over
// any even number of frames.
func jittered(i int) map[body.Joint]r3.Vector {
	sign := 1.0
	if i%2 == 1 {
		sign = -1
	}
	out := make(map[body.Joint]r3.Vector, len(subjectJoints))
	for j, p := range subjectJoints {
		out[j] = p.Add(r3.Vector{X: 0.002 * sign, Z: -0.002 * sign})
	}
	return out
}

func render3D(shapes []shape, theta float64) *skeleton.DepthSurface {
	rot := skeleton.RotationY(theta)
	s, c := math.Sincos(theta)
	eye := r3.Vector{X: -captureDistance * s, Y: captureEyeY, Z: -captureDistance * c}

	d := &skeleton.DepthSurface{
		Width:       captureWidth,
		Height:      captureHeight,
		Values:      make([]float64, captureWidth*captureHeight),
		Intrinsics:  captureIntrinsics,
		Rotation:    rot,
		Translation: eye,
	}
	in := captureIntrinsics
	for v := 0; v < captureHeight; v++ {
		for u := 0; u < captureWidth; u++ {
			cam := r3.Vector{X: (float64(u) - in.Cx) / in.Fx, Y: -(float64(v) - in.Cy) / in.Fy, Z: 1}
			dir := r3.Vector{
				X: rot[0]*cam.X + rot[1]*cam.Y + rot[2]*cam.Z,
				Y: rot[3]*cam.X + rot[4]*cam.Y + rot[5]*cam.Z,
				Z: rot[6]*cam.X + rot[7]*cam.Y + rot[8]*cam.Z,
			}
			depth := 0.0
			for _, sh := range shapes {
				if t, ok := sh.hit(eye, dir); ok && (depth == 0 || t < depth) {
					depth = t
				}
			}
			d.Values[v*captureWidth+u] = depth
		}
	}
	return d
}
