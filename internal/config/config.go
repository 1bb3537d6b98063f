// Package config loads bodyscan settings from YAML.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/bodyscan/internal/planar"
	"github.com/ayusman/bodyscan/internal/volumetric"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// StaticDir is served at / when set.
	StaticDir string `yaml:"static_dir"`
	// MaxBodyBytes limits request bodies, including capture uploads.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// MaxFrames limits how many frames one WebSocket capture may buffer.
	MaxFrames int `yaml:"max_frames"`
}

// DepthConfig controls how external depth images are read.
type DepthConfig struct {
	// Scale converts raw pixel values to metres.
	Scale float64 `yaml:"scale"`
	// MedianKernel is 0 (off), 3 or 5.
	MedianKernel int `yaml:"median_kernel"`
}

// Config is the complete application configuration.
type Config struct {
	DataDir    string            `yaml:"data_dir"`
	Server     ServerConfig      `yaml:"server"`
	Depth      DepthConfig       `yaml:"depth"`
	Planar     planar.Config     `yaml:"planar"`
	Volumetric volumetric.Config `yaml:"volumetric"`
}

// Default returns the built-in configuration. DataDir is ~/.bodyscan when
// the home directory is known.
func Default() Config {
	dataDir := ".bodyscan"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".bodyscan")
	}
	return Config{
		DataDir: dataDir,
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 64 << 20,
			MaxFrames:    600,
		},
		Depth: DepthConfig{
			Scale:        0.001, // 16-bit millimetre images
			MedianKernel: 3,
		},
		Planar:     planar.DefaultConfig(),
		Volumetric: volumetric.DefaultConfig(),
	}
}

// Load reads path and overlays it on Default. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// DBPath is the scan database inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "bodyscan.db")
}

// Validate reports every setting the estimators cannot work with.
func (c Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			err = multierr.Append(err, errors.Errorf(format, args...))
		}
	}

	check(c.Server.MaxBodyBytes > 0, "server.max_body_bytes must be positive")
	check(c.Server.MaxFrames > 0, "server.max_frames must be positive")
	check(c.Depth.Scale > 0, "depth.scale must be positive")
	check(c.Depth.MedianKernel == 0 || c.Depth.MedianKernel == 3 || c.Depth.MedianKernel == 5,
		"depth.median_kernel must be 0, 3 or 5, got %d", c.Depth.MedianKernel)

	p := c.Planar
	check(p.MinConfidence >= 0 && p.MinConfidence <= 1, "planar.min_confidence must be in [0, 1]")
	check(p.DefaultHeightCm > 0, "planar.default_height_cm must be positive")
	check(p.MinSideDepthRatio > 0 && p.MinSideDepthRatio < p.MaxSideDepthRatio,
		"planar side depth ratios must satisfy 0 < min < max")

	v := c.Volumetric
	pc := v.PointCloud
	check(pc.Stride >= 1, "volumetric.point_cloud.stride must be at least 1")
	check(pc.K >= 1, "volumetric.point_cloud.k must be at least 1")
	check(pc.StdDevMult > 0, "volumetric.point_cloud.stddev_mult must be positive")
	check(pc.MinDepth >= 0 && pc.MinDepth < pc.MaxDepth,
		"volumetric.point_cloud depth range must satisfy 0 <= min < max")
	check(v.DefaultHeightCm > 0, "volumetric.default_height_cm must be positive")
	check(v.SliceThicknessCm > 0, "volumetric.slice_thickness_cm must be positive")
	check(v.NeckThicknessCm > 0, "volumetric.neck_thickness_cm must be positive")
	check(v.MinSlicePoints >= 5, "volumetric.min_slice_points must be at least 5")
	check(v.LimbRadiusFactor >= 1, "volumetric.limb_radius_factor must be at least 1")

	return err
}
