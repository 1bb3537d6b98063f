// Package planar estimates body measurements from 2D landmarks taken from a
// front view and an optional side view, scaled by a known standing height.
package planar

import (
	"math"

	"go.uber.org/zap"

	"github.com/ayusman/bodyscan/internal/body"
	"github.com/ayusman/bodyscan/internal/geometry"
	"github.com/ayusman/bodyscan/internal/landmark"
	"github.com/ayusman/bodyscan/internal/measure"
)

// DefaultHeightCm is used when no usable reference height is supplied.
const DefaultHeightCm = 170.0

// Config holds planar estimation settings.
type Config struct {
	// MinConfidence is the landmark visibility below which a landmark is
	// treated as absent.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`
	// DefaultHeightCm replaces a non-positive reference height.
	DefaultHeightCm float64 `yaml:"default_height_cm" json:"default_height_cm"`
	// MinSideDepthRatio and MaxSideDepthRatio bound a side-view depth
	// relative to the matching front width. Depths outside the band are
	// discarded in favour of the proportion ratio.
	MinSideDepthRatio float64 `yaml:"min_side_depth_ratio" json:"min_side_depth_ratio"`
	MaxSideDepthRatio float64 `yaml:"max_side_depth_ratio" json:"max_side_depth_ratio"`

	Proportions body.Proportions `yaml:"proportions" json:"proportions"`
}

// DefaultConfig returns the default planar settings.
func DefaultConfig() Config {
	return Config{
		MinConfidence:     landmark.DefaultMinConfidence,
		DefaultHeightCm:   DefaultHeightCm,
		MinSideDepthRatio: 0.3,
		MaxSideDepthRatio: 1.2,
		Proportions:       body.DefaultProportions(),
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

// Estimator computes measurements from landmark sets. It holds no mutable
// state and is safe for concurrent use.
type Estimator struct {
	cfg    Config
	logger *zap.SugaredLogger
}

// New creates an Estimator.
func New(cfg Config, opts ...Option) *Estimator {
	if cfg.DefaultHeightCm <= 0 {
		cfg.DefaultHeightCm = DefaultHeightCm
	}
	e := &Estimator{cfg: cfg, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calibrate returns the image scale in pixels per centimetre for a standing
// subject of the given height, using the default landmark threshold. A
// non-positive height is replaced by DefaultHeightCm.
func Calibrate(set *landmark.Set, referenceHeightCm float64) (float64, bool) {
	if referenceHeightCm <= 0 {
		referenceHeightCm = DefaultHeightCm
	}
	return calibrate(set, referenceHeightCm, landmark.DefaultMinConfidence)
}

// calibrate measures the vertical head-to-ankle span. When the span cannot be
// measured it returns the sentinel scale 1 and false.
func calibrate(set *landmark.Set, heightCm, minConf float64) (float64, bool) {
	if set == nil || heightCm <= 0 || !geometry.Finite(heightCm) {
		return 1, false
	}
	head, ok := set.Get(body.HeadTop, minConf)
	if !ok {
		if head, ok = set.Get(body.Nose, minConf); !ok {
			return 1, false
		}
	}

	var sum float64
	var n int
	for _, j := range []body.Joint{body.LeftAnkle, body.RightAnkle} {
		if l, ok := set.Get(j, minConf); ok {
			sum += l.Y
			n++
		}
	}
	if n == 0 {
		return 1, false
	}

	span := math.Abs(head.Y-sum/float64(n)) * set.ImageHeight
	if span <= 0 || !geometry.Finite(span) {
		return 1, false
	}
	return span / heightCm, true
}

// Estimate computes every measurement. side may be nil. The result is always
// complete: anything that cannot be observed is replaced by a proportion
// proxy at reduced confidence.
func (e *Estimator) Estimate(front, side *landmark.Set, referenceHeightCm float64) measure.BodyMeasurements {
	props := e.cfg.Proportions
	m := measure.New()

	height := body.Observed(referenceHeightCm)
	if referenceHeightCm <= 0 || !geometry.Finite(referenceHeightCm) {
		e.logger.Infow("reference height unusable, using default",
			"given", referenceHeightCm, "default", e.cfg.DefaultHeightCm)
		height = body.Proxy(e.cfg.DefaultHeightCm)
	}

	scale, calibrated := calibrate(front, height.Value, e.cfg.MinConfidence)
	if !calibrated {
		e.logger.Infow("front view calibration failed, all measurements marked low")
	}
	pose := front.Pose(e.cfg.MinConfidence, scale)

	lengths := body.MeasureLengths(pose, height, props)
	body.Fill(&m, lengths, props)

	e.applySideView(&m, lengths, side, height.Value)

	if !calibrated {
		m.Cap(measure.ConfidenceLow)
	}
	for _, n := range m.Degraded(measure.ConfidenceMedium) {
		e.logger.Debugw("measurement from proxy", "field", string(n), "confidence", string(m.ConfidenceOf(n)))
	}
	return m
}

// applySideView replaces the ratio-based torso depths with depths observed
// in the side view, when they are plausible.
func (e *Estimator) applySideView(m *measure.BodyMeasurements, l body.Lengths, side *landmark.Set, heightCm float64) {
	if side == nil {
		return
	}
	scale, ok := calibrate(side, heightCm, e.cfg.MinConfidence)
	if !ok {
		e.logger.Infow("side view calibration failed, using depth ratios")
		return
	}

	props := e.cfg.Proportions
	chestW := l.ShoulderWidth.Scale(props.ChestToShoulderWidth)
	hipW := l.HipJointWidth.Scale(props.HipWidthToHipJoints)
	waistW := hipW.Scale(props.WaistToHipWidth)

	chestD, okC := e.sideSpan(side, scale, body.LeftShoulder, body.RightShoulder)
	hipD, okH := e.sideSpan(side, scale, body.LeftHip, body.RightHip)

	if okC {
		e.setGirth(m, measure.ChestCircumference, chestW, chestD, props.ChestDepthRatio)
	}
	if okH {
		e.setGirth(m, measure.HipCircumference, hipW, hipD, props.HipDepthRatio)
	}
	if okC && okH {
		e.setGirth(m, measure.WaistCircumference, waistW, (chestD+hipD)/2, props.WaistDepthRatio)
	}
}

func (e *Estimator) setGirth(m *measure.BodyMeasurements, n measure.Name, width body.Quantity, depth, ratio float64) {
	if !width.OK() {
		return
	}
	r := depth / width.Value
	if r < e.cfg.MinSideDepthRatio || r > e.cfg.MaxSideDepthRatio {
		e.logger.Infow("side depth implausible, using depth ratio", "field", string(n), "ratio", r)
		return
	}
	g := body.Girth(width, body.Observed(depth), ratio)
	m.Set(n, g.Value, g.Confidence)
}

// sideSpan is the horizontal distance between a bilateral pair in the side
// view. In profile the pair spreads across the body's depth.
func (e *Estimator) sideSpan(side *landmark.Set, scale float64, a, b body.Joint) (float64, bool) {
	pa, okA := side.Pixel(a, e.cfg.MinConfidence)
	pb, okB := side.Pixel(b, e.cfg.MinConfidence)
	if !okA || !okB {
		return 0, false
	}
	d := math.Abs(pa.X-pb.X) / scale
	return d, d > 0
}
