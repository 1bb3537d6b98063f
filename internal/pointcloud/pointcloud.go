// Package pointcloud fuses per-frame depth surfaces into one body-frame
// point cloud and removes statistical outliers from it.
package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/bodyscan/internal/skeleton"
)

// Cloud is a set of points in the body frame, in metres.
type Cloud []r3.Vector

// Config controls depth sampling and outlier rejection.
type Config struct {
	// Stride samples every Stride-th pixel in both directions.
	Stride int `yaml:"stride" json:"stride"`
	// Depths outside (MinDepth, MaxDepth] metres are sensor noise.
	MinDepth float64 `yaml:"min_depth" json:"min_depth"`
	MaxDepth float64 `yaml:"max_depth" json:"max_depth"`
	// K is the neighbourhood size of the outlier filter and StdDevMult the
	// number of standard deviations a point's mean neighbour distance may
	// exceed the cloud average by.
	K          int     `yaml:"k" json:"k"`
	StdDevMult float64 `yaml:"stddev_mult" json:"stddev_mult"`
}

// DefaultConfig returns the default fusion settings.
func DefaultConfig() Config {
	return Config{
		Stride:     4,
		MinDepth:   0,
		MaxDepth:   5,
		K:          20,
		StdDevMult: 2.0,
	}
}

// Fuse samples every frame's depth surface and returns the union of the
// back-projected points. Frames without a complete depth grid contribute
// nothing.
func Fuse(frames []skeleton.Frame, cfg Config) Cloud {
	stride := cfg.Stride
	if stride < 1 {
		stride = 1
	}

	var cloud Cloud
	for _, f := range frames {
		d := f.Depth
		if d == nil || !d.Complete() || d.Intrinsics.Fx <= 0 || d.Intrinsics.Fy <= 0 {
			continue
		}
		for v := 0; v < d.Height; v += stride {
			for u := 0; u < d.Width; u += stride {
				z := d.At(u, v)
				if math.IsNaN(z) || math.IsInf(z, 0) || z <= cfg.MinDepth || z > cfg.MaxDepth {
					continue
				}
				cloud = append(cloud, d.ToBody(d.Unproject(u, v, z)))
			}
		}
	}
	return cloud
}

// Centroid returns the mean point, or the origin for an empty cloud.
func (c Cloud) Centroid() r3.Vector {
	if len(c) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range c {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(c)))
}

// Bounds returns the axis-aligned bounding box of the cloud.
func (c Cloud) Bounds() (lo, hi r3.Vector) {
	if len(c) == 0 {
		return r3.Vector{}, r3.Vector{}
	}
	lo, hi = c[0], c[0]
	for _, p := range c[1:] {
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}
