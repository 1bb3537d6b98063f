// Package app runs body scans: it estimates measurements, validates them and
// records the result in the scan history.
package app

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ayusman/bodyscan/internal/landmark"
	"github.com/ayusman/bodyscan/internal/measure"
	"github.com/ayusman/bodyscan/internal/planar"
	"github.com/ayusman/bodyscan/internal/skeleton"
	"github.com/ayusman/bodyscan/internal/store"
	"github.com/ayusman/bodyscan/internal/volumetric"
)

var (
	// ErrNoFront is returned when a planar scan has no front landmarks.
	ErrNoFront = errors.New("front landmarks are required")
	// ErrNoFrames is returned when a volumetric scan has no frames.
	ErrNoFrames = errors.New("at least one frame is required")
	// ErrUnresolvedDepth is returned for a frame whose depth_file was never
	// loaded into its grid.
	ErrUnresolvedDepth = errors.New("depth file not loaded")
)

// Config holds configuration options for the application.
type Config struct {
	// Store is optional; without it scans are estimated but not recorded.
	Store      *store.Store
	Planar     planar.Config
	Volumetric volumetric.Config
	Logger     *zap.SugaredLogger
}

// PlanarRequest is the input of a 2D scan.
type PlanarRequest struct {
	Front             *landmark.Set `json:"front"`
	Side              *landmark.Set `json:"side,omitempty"`
	ReferenceHeightCm float64       `json:"reference_height_cm,omitempty"`
}

// VolumetricRequest is the input of a rotation scan.
type VolumetricRequest struct {
	Frames []skeleton.Frame `json:"frames"`
}

// App is the scan service shared by the CLI and the HTTP server.
type App struct {
	store      *store.Store
	planar     *planar.Estimator
	volumetric *volumetric.Estimator
	logger     *zap.SugaredLogger
	closers    []io.Closer
}

// New creates a new App instance with the given configuration. The App
// takes ownership of the store.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	a := &App{
		store:      config.Store,
		planar:     planar.New(config.Planar, planar.WithLogger(logger.Named("planar"))),
		volumetric: volumetric.New(config.Volumetric, volumetric.WithLogger(logger.Named("volumetric"))),
		logger:     logger,
	}
	if config.Store != nil {
		a.closers = append(a.closers, config.Store)
	}
	return a
}

// Store returns the scan history, or nil when none is configured.
func (a *App) Store() *store.Store {
	return a.store
}

// EstimatePlanar measures a subject from front (and optionally side)
// landmarks.
func (a *App) EstimatePlanar(ctx context.Context, req PlanarRequest) (*store.Scan, error) {
	if req.Front.Len() == 0 {
		return nil, ErrNoFront
	}

	m := a.planar.Estimate(req.Front, req.Side, req.ReferenceHeightCm)
	sc := &store.Scan{
		ID:                uuid.New().String(),
		Kind:              store.KindPlanar,
		ReferenceHeightCm: req.ReferenceHeightCm,
		Measurements:      m,
	}
	if err := a.finish(ctx, sc, req); err != nil {
		return nil, err
	}
	return sc, nil
}

// EstimateVolumetric measures a subject from a rotation capture.
func (a *App) EstimateVolumetric(ctx context.Context, req VolumetricRequest) (*store.Scan, error) {
	if len(req.Frames) == 0 {
		return nil, ErrNoFrames
	}
	for i, f := range req.Frames {
		if err := checkDepth(f); err != nil {
			return nil, errors.WithMessagef(err, "frame %d", i)
		}
	}

	m := a.volumetric.Estimate(req.Frames)
	sc := &store.Scan{
		ID:           uuid.New().String(),
		Kind:         store.KindVolumetric,
		FrameCount:   len(req.Frames),
		Measurements: m,
	}
	if err := a.finish(ctx, sc, req); err != nil {
		return nil, err
	}
	return sc, nil
}

// checkDepth rejects frames that still point at an external depth image.
// Only the CLI resolves those, from files next to the capture.
func checkDepth(f skeleton.Frame) error {
	if f.DepthFile != "" && (f.Depth == nil || !f.Depth.Complete()) {
		return errors.Wrap(ErrUnresolvedDepth, f.DepthFile)
	}
	return nil
}

// finish validates the scan and records it together with its input.
func (a *App) finish(ctx context.Context, sc *store.Scan, input interface{}) error {
	report := measure.Validate(sc.Measurements)
	sc.Valid = report.OK
	sc.Issues = report.Issues

	log := a.logger.With("scan", sc.ID, "kind", string(sc.Kind))
	for _, is := range report.Issues {
		log.Warnw("implausible measurement", "field", string(is.Name), "value_cm", is.Value,
			"min_cm", is.Range.Min, "max_cm", is.Range.Max)
	}
	if degraded := sc.Measurements.Degraded(measure.ConfidenceMedium); len(degraded) > 0 {
		log.Debugw("low confidence measurements", "count", len(degraded))
	}

	if a.store == nil {
		return nil
	}

	scans := a.store.Scans()
	if err := scans.Create(ctx, sc); err != nil {
		return errors.Wrap(err, "save scan")
	}
	data, err := json.Marshal(input)
	if err != nil {
		return errors.Wrap(err, "encode scan input")
	}
	if err := scans.SaveInput(ctx, sc.ID, data); err != nil {
		return errors.Wrap(err, "save scan input")
	}
	log.Infow("scan recorded", "valid", sc.Valid)
	return nil
}

// Close releases the store.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c.Close())
	}
	a.closers = nil
	return err
}
