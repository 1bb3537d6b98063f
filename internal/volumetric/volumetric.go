// Package volumetric estimates body measurements from a rotation capture:
// a sequence of 3D skeleton frames with aligned depth surfaces.
package volumetric

import (
	"math"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/ayusman/bodyscan/internal/body"
	"github.com/ayusman/bodyscan/internal/measure"
	"github.com/ayusman/bodyscan/internal/pointcloud"
	"github.com/ayusman/bodyscan/internal/section"
	"github.com/ayusman/bodyscan/internal/skeleton"
)

// metres to centimetres
const cm = 100.0

// Config holds volumetric estimation settings. Lengths are in centimetres.
type Config struct {
	PointCloud pointcloud.Config `yaml:"point_cloud" json:"point_cloud"`

	// CrownOffsetCm is added to the head or nose joint when no head-top
	// joint was tracked.
	CrownOffsetCm float64 `yaml:"crown_offset_cm" json:"crown_offset_cm"`
	// DefaultHeightCm is used when the skeleton spans no head-to-foot
	// distance and the cloud is empty.
	DefaultHeightCm float64 `yaml:"default_height_cm" json:"default_height_cm"`

	NeckThicknessCm  float64 `yaml:"neck_thickness_cm" json:"neck_thickness_cm"`
	SliceThicknessCm float64 `yaml:"slice_thickness_cm" json:"slice_thickness_cm"`
	MinSlicePoints   int     `yaml:"min_slice_points" json:"min_slice_points"`
	// LimbRadiusFactor bounds limb slices radially, relative to the radius
	// implied by the proportion estimate for that limb.
	LimbRadiusFactor float64 `yaml:"limb_radius_factor" json:"limb_radius_factor"`

	Proportions body.Proportions `yaml:"proportions" json:"proportions"`
}

// DefaultConfig returns the default volumetric settings.
func DefaultConfig() Config {
	return Config{
		PointCloud:       pointcloud.DefaultConfig(),
		CrownOffsetCm:    10,
		DefaultHeightCm:  170,
		NeckThicknessCm:  3,
		SliceThicknessCm: 5,
		MinSlicePoints:   section.DefaultMinPoints,
		LimbRadiusFactor: 1.5,
		Proportions:      body.DefaultProportions(),
	}
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *Estimator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Estimator runs the volumetric pipeline. It holds no mutable state.
type Estimator struct {
	cfg    Config
	logger *zap.SugaredLogger
}

// New creates an Estimator.
func New(cfg Config, opts ...Option) *Estimator {
	if cfg.MinSlicePoints <= 0 {
		cfg.MinSlicePoints = section.DefaultMinPoints
	}
	if cfg.DefaultHeightCm <= 0 {
		cfg.DefaultHeightCm = 170
	}
	e := &Estimator{cfg: cfg, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate averages the skeleton, fuses and filters the depth, and measures
// every girth from a cross-section where enough points exist. Anything that
// cannot be sliced falls back to the proportion estimate at low confidence.
//
// Estimate panics if frames is empty.
func (e *Estimator) Estimate(frames []skeleton.Frame) measure.BodyMeasurements {
	avg := skeleton.Average(frames)
	if spread := skeleton.Spread(frames, avg); len(spread) > 0 {
		e.logger.Debugw("skeleton jitter", "joint", spread[0].Joint,
			"mean_cm", spread[0].Mean*cm, "stddev_cm", spread[0].StdDev*cm)
	}

	pc := e.cfg.PointCloud
	cloud := pointcloud.Fuse(frames, pc)
	fused := len(cloud)
	cloud = pointcloud.RemoveOutliers(cloud, pc.K, pc.StdDevMult)
	e.logger.Debugw("point cloud", "frames", len(frames), "fused", fused, "kept", len(cloud))

	pose := avg.Pose()
	props := e.cfg.Proportions

	m := measure.New()
	lengths := body.MeasureLengths(pose, e.height(pose, cloud), props)
	body.Fill(&m, lengths, props)

	e.record(&m, newSlicer(cloud, pose, e.cfg, m).girths())
	return m
}

// record overwrites proportion estimates with the girths that were sliced
// and downgrades the rest.
func (e *Estimator) record(m *measure.BodyMeasurements, girths []girth) {
	for _, g := range girths {
		if g.ok {
			m.Set(g.name, g.value, measure.ConfidenceHigh)
			if g.clipped {
				e.logger.Warnw("limb slice reached its radius bound, girth may be under-measured",
					"field", string(g.name), "value_cm", g.value, "bound_cm", g.bound)
			}
			continue
		}
		m.Set(g.name, m.Get(g.name), measure.ConfidenceLow)
		e.logger.Infow("cross-section unavailable, using proportion estimate",
			"field", string(g.name), "value_cm", m.Get(g.name))
	}
}

// height measures from the top of the head to the lowest foot joint. The
// cloud's vertical extent is used when the skeleton lacks either end.
func (e *Estimator) height(pose body.Pose, cloud pointcloud.Cloud) body.Quantity {
	top, okTop := pose.Get(body.HeadTop)
	if !okTop {
		for _, j := range []body.Joint{body.Head, body.Nose} {
			if p, ok := pose.Get(j); ok {
				top, okTop = p.Add(r3.Vector{Y: e.cfg.CrownOffsetCm}), true
				break
			}
		}
	}

	bottom := math.Inf(1)
	for _, j := range []body.Joint{
		body.LeftAnkle, body.RightAnkle, body.LeftHeel, body.RightHeel,
		body.LeftFootIndex, body.RightFootIndex,
	} {
		if p, ok := pose.Get(j); ok {
			bottom = math.Min(bottom, p.Y)
		}
	}

	if okTop && !math.IsInf(bottom, 1) && top.Y > bottom {
		return body.Observed(top.Y - bottom)
	}
	if len(cloud) > 0 {
		lo, hi := cloud.Bounds()
		e.logger.Infow("skeleton height unavailable, using point cloud extent")
		return body.Quantity{Value: (hi.Y - lo.Y) * cm, Confidence: measure.ConfidenceMedium}
	}
	e.logger.Infow("height unavailable, using default", "default_cm", e.cfg.DefaultHeightCm)
	return body.Proxy(e.cfg.DefaultHeightCm)
}
