package volumetric

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/bodyscan/internal/body"
	"github.com/ayusman/bodyscan/internal/geometry"
	"github.com/ayusman/bodyscan/internal/measure"
	"github.com/ayusman/bodyscan/internal/pointcloud"
	"github.com/ayusman/bodyscan/internal/section"
)

// clipFraction of the radial bound marks a limb fit as possibly clipped.
const clipFraction = 0.95

type girth struct {
	name  measure.Name
	value float64
	ok    bool
	// clipped is set when a fitted radius reached the slice bound.
	clipped bool
	bound   float64
}

// slicer measures girths on a cloud and pose that share one unit.
type slicer struct {
	cloud   pointcloud.Cloud
	pose    body.Pose
	cfg     Config
	proxies measure.BodyMeasurements
}

func newSlicer(cloud pointcloud.Cloud, pose body.Pose, cfg Config, proxies measure.BodyMeasurements) slicer {
	scaled := make(pointcloud.Cloud, len(cloud))
	for i, p := range cloud {
		scaled[i] = p.Mul(cm)
	}
	return slicer{cloud: scaled, pose: pose, cfg: cfg, proxies: proxies}
}

// bone selects a slab centre and axis for one body side.
type bone func(s body.Side) (center, axis r3.Vector, ok bool)

func (s slicer) girths() []girth {
	t := s.cfg.SliceThicknessCm
	return []girth{
		s.torso(measure.NeckCircumference, s.neckY, s.cfg.NeckThicknessCm),
		s.torso(measure.ChestCircumference, s.torsoY(body.Chest, 0.25), t),
		s.torso(measure.WaistCircumference, s.torsoY(body.Spine, 0.6), t),
		s.torso(measure.HipCircumference, s.torsoY(body.Pelvis, 1), t),
		s.limb(measure.BicepCircumference, s.midBone(func(sd body.Side) (body.Joint, body.Joint) { return sd.Shoulder, sd.Elbow })),
		s.limb(measure.ForearmCircumference, s.midBone(func(sd body.Side) (body.Joint, body.Joint) { return sd.Elbow, sd.Wrist })),
		s.limb(measure.WristCircumference, s.endBone(func(sd body.Side) (body.Joint, body.Joint) { return sd.Elbow, sd.Wrist })),
		s.limb(measure.ThighCircumference, s.midBone(func(sd body.Side) (body.Joint, body.Joint) { return sd.Hip, sd.Knee })),
		s.limb(measure.CalfCircumference, s.midBone(func(sd body.Side) (body.Joint, body.Joint) { return sd.Knee, sd.Ankle })),
		s.limb(measure.AnkleCircumference, s.endBone(func(sd body.Side) (body.Joint, body.Joint) { return sd.Knee, sd.Ankle })),
	}
}

func (s slicer) torso(n measure.Name, at func() (float64, bool), thickness float64) girth {
	y, ok := at()
	if !ok {
		return girth{name: n}
	}
	v, ok := section.Girth(s.cloud, section.Horizontal(y, thickness), s.cfg.MinSlicePoints)
	return girth{name: n, value: v, ok: ok}
}

// limb slices both sides perpendicular to the bone and averages the sides
// that produced a fit.
func (s slicer) limb(n measure.Name, where bone) girth {
	maxRadius := s.proxies.Get(n) / (2 * math.Pi) * s.cfg.LimbRadiusFactor
	clipped := false
	v, ok := s.pose.Bilateral(func(sd body.Side) (float64, bool) {
		center, axis, ok := where(sd)
		if !ok {
			return 0, false
		}
		plane := section.Plane{
			Center:    center,
			Axis:      axis,
			Thickness: s.cfg.SliceThicknessCm,
			MaxRadius: maxRadius,
		}
		e, ok := section.FitEllipse(plane.Slice(s.cloud), s.cfg.MinSlicePoints)
		if !ok {
			return 0, false
		}
		if maxRadius > 0 && e.A >= maxRadius*clipFraction {
			clipped = true
		}
		return e.Circumference(), true
	})
	return girth{name: n, value: v, ok: ok, clipped: ok && clipped, bound: maxRadius}
}

// midBone slices halfway along the bone.
func (s slicer) midBone(joints func(body.Side) (body.Joint, body.Joint)) bone {
	return func(sd body.Side) (r3.Vector, r3.Vector, bool) {
		a, b := joints(sd)
		pa, okA := s.pose.Get(a)
		pb, okB := s.pose.Get(b)
		if !okA || !okB || pa == pb {
			return r3.Vector{}, r3.Vector{}, false
		}
		return geometry.Midpoint(pa, pb), pb.Sub(pa), true
	}
}

// endBone slices at the distal joint of the bone.
func (s slicer) endBone(joints func(body.Side) (body.Joint, body.Joint)) bone {
	return func(sd body.Side) (r3.Vector, r3.Vector, bool) {
		a, b := joints(sd)
		pa, okA := s.pose.Get(a)
		pb, okB := s.pose.Get(b)
		if !okA || !okB || pa == pb {
			return r3.Vector{}, r3.Vector{}, false
		}
		return pb, pb.Sub(pa), true
	}
}

func (s slicer) neckY() (float64, bool) {
	if p, ok := s.pose.Get(body.Neck); ok {
		return p.Y, true
	}
	shoulders, ok := s.pose.Center(body.LeftShoulder, body.RightShoulder)
	if !ok {
		return 0, false
	}
	for _, j := range []body.Joint{body.Head, body.Nose} {
		if p, ok := s.pose.Get(j); ok {
			return (shoulders.Y + p.Y) / 2, true
		}
	}
	return 0, false
}

// torsoY returns the height of joint j, or a point fraction of the way from
// the shoulder centre down to the hip centre.
func (s slicer) torsoY(j body.Joint, fraction float64) func() (float64, bool) {
	return func() (float64, bool) {
		if p, ok := s.pose.Get(j); ok {
			return p.Y, true
		}
		shoulders, okS := s.pose.Center(body.LeftShoulder, body.RightShoulder)
		hips, okH := s.pose.Center(body.LeftHip, body.RightHip)
		if !okS || !okH {
			return 0, false
		}
		return shoulders.Y + (hips.Y-shoulders.Y)*fraction, true
	}
}
