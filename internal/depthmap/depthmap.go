// Package depthmap loads depth images from disk into depth surfaces that the
// volumetric estimator can fuse.
package depthmap

import (
	"path/filepath"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/bodyscan/internal/skeleton"
)

const (
	// MillimetreScale converts 16-bit millimetre depth images to metres.
	MillimetreScale = 0.001
	// MetreScale leaves 32-bit float metre images untouched.
	MetreScale = 1.0
)

// Load reads a single-channel depth image and multiplies each raw value by
// scale to obtain metres. Zero pixels stay zero and are later treated as
// holes by fusion.
func Load(path string, scale float64) (*skeleton.DepthSurface, error) {
	mat := gocv.IMRead(path, gocv.IMReadAnyDepth)
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.Errorf("depthmap: cannot read %s", path)
	}
	d, err := FromMat(mat, scale)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return d, nil
}

// FromMat converts a single-channel Mat of any depth into a surface in
// metres. Camera parameters are left zero for the caller to fill in.
func FromMat(mat gocv.Mat, scale float64) (*skeleton.DepthSurface, error) {
	if mat.Empty() {
		return nil, errors.New("depthmap: empty image")
	}
	if mat.Channels() != 1 {
		return nil, errors.Errorf("depthmap: expected 1 channel, got %d", mat.Channels())
	}
	if scale <= 0 {
		return nil, errors.Errorf("depthmap: invalid scale %v", scale)
	}

	f := gocv.NewMat()
	defer f.Close()
	mat.ConvertTo(&f, gocv.MatTypeCV32F)

	rows, cols := f.Rows(), f.Cols()
	values := make([]float64, rows*cols)
	for v := 0; v < rows; v++ {
		for u := 0; u < cols; u++ {
			values[v*cols+u] = float64(f.GetFloatAt(v, u)) * scale
		}
	}
	return &skeleton.DepthSurface{Width: cols, Height: rows, Values: values}, nil
}

// toMat copies a surface into a 32-bit float Mat.
func toMat(d *skeleton.DepthSurface) gocv.Mat {
	mat := gocv.NewMatWithSize(d.Height, d.Width, gocv.MatTypeCV32F)
	for v := 0; v < d.Height; v++ {
		for u := 0; u < d.Width; u++ {
			mat.SetFloatAt(v, u, float32(d.At(u, v)))
		}
	}
	return mat
}

// Denoise median-filters the surface in place to suppress flying pixels at
// silhouette edges. Float images only support kernel sizes 3 and 5.
func Denoise(d *skeleton.DepthSurface, ksize int) error {
	if ksize != 3 && ksize != 5 {
		return errors.Errorf("depthmap: unsupported median kernel %d", ksize)
	}
	if d == nil || d.Width == 0 || d.Height == 0 || len(d.Values) != d.Width*d.Height {
		return errors.New("depthmap: surface has no grid")
	}

	src := toMat(d)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.MedianBlur(src, &dst, ksize)

	for v := 0; v < d.Height; v++ {
		for u := 0; u < d.Width; u++ {
			d.Values[v*d.Width+u] = float64(dst.GetFloatAt(v, u))
		}
	}
	return nil
}

// Attach loads the depth file of every frame that names one, resolving
// relative paths against dir. Camera parameters already decoded with the
// frame are kept; a frame without them cannot be fused and is an error.
// A positive ksize median-filters each loaded image.
func Attach(frames []skeleton.Frame, dir string, scale float64, ksize int) (int, error) {
	loaded := 0
	for i := range frames {
		f := &frames[i]
		if f.DepthFile == "" {
			continue
		}
		if f.Depth == nil || f.Depth.Intrinsics.Fx <= 0 || f.Depth.Intrinsics.Fy <= 0 {
			return loaded, errors.Errorf("frame %d: %s has no camera intrinsics", i, f.DepthFile)
		}

		path := f.DepthFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		grid, err := Load(path, scale)
		if err != nil {
			return loaded, errors.Wrapf(err, "frame %d", i)
		}
		if ksize > 0 {
			if err := Denoise(grid, ksize); err != nil {
				return loaded, errors.Wrapf(err, "frame %d", i)
			}
		}

		f.Depth.Width = grid.Width
		f.Depth.Height = grid.Height
		f.Depth.Values = grid.Values
		loaded++
	}
	return loaded, nil
}
