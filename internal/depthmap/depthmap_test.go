package depthmap

import (
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/bodyscan/internal/skeleton"
)

// writeDepthPNG stores a 16-bit millimetre image whose pixel (u, v) holds
// 1000 + 10*u + v.
func writeDepthPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	defer f.Close()
	for v := 0; v < h; v++ {
		for u := 0; u < w; u++ {
			f.SetFloatAt(v, u, float32(1000+10*u+v))
		}
	}
	mm := gocv.NewMat()
	defer mm.Close()
	f.ConvertTo(&mm, gocv.MatTypeCV16U)
	if ok := gocv.IMWrite(path, mm); !ok {
		t.Fatalf("failed to write %s", path)
	}
}

func TestFromMat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV32F)
	defer mat.Close()
	mat.SetFloatAt(0, 0, 1.5)
	mat.SetFloatAt(1, 2, 2.25)

	d, err := FromMat(mat, MetreScale)
	if err != nil {
		t.Fatalf("FromMat() error = %v", err)
	}
	if d.Width != 3 || d.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", d.Width, d.Height)
	}
	if d.At(0, 0) != 1.5 || d.At(2, 1) != 2.25 || d.At(1, 0) != 0 {
		t.Errorf("values = %v", d.Values)
	}
}

func TestFromMat_Errors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := FromMat(empty, MetreScale); err == nil {
		t.Error("empty Mat should fail")
	}

	color := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer color.Close()
	if _, err := FromMat(color, MetreScale); err == nil {
		t.Error("3-channel Mat should fail")
	}

	gray := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV32F)
	defer gray.Close()
	if _, err := FromMat(gray, 0); err == nil {
		t.Error("zero scale should fail")
	}
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV image IO")
	}

	path := filepath.Join(t.TempDir(), "depth.png")
	writeDepthPNG(t, path, 4, 3)

	d, err := Load(path, MillimetreScale)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Width != 4 || d.Height != 3 {
		t.Fatalf("size = %dx%d, want 4x3", d.Width, d.Height)
	}
	if got := d.At(3, 2); got < 1.0319 || got > 1.0321 {
		t.Errorf("At(3, 2) = %v, want 1.032", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), MillimetreScale); err == nil {
		t.Error("missing file should fail")
	}
}

func TestDenoise(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := &skeleton.DepthSurface{Width: 5, Height: 5, Values: make([]float64, 25)}
	for i := range d.Values {
		d.Values[i] = 2
	}
	d.Values[2*5+2] = 9 // flying pixel

	if err := Denoise(d, 3); err != nil {
		t.Fatalf("Denoise() error = %v", err)
	}
	if got := d.At(2, 2); got != 2 {
		t.Errorf("spike survived median filter: %v", got)
	}

	if err := Denoise(d, 7); err == nil {
		t.Error("kernel 7 should be rejected")
	}
	if err := Denoise(&skeleton.DepthSurface{}, 3); err == nil {
		t.Error("empty surface should be rejected")
	}
}

func TestAttach(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV image IO")
	}

	dir := t.TempDir()
	writeDepthPNG(t, filepath.Join(dir, "f0.png"), 4, 3)

	in := skeleton.Intrinsics{Fx: 280, Fy: 280, Cx: 2, Cy: 1}
	frames := []skeleton.Frame{
		{DepthFile: "f0.png", Depth: &skeleton.DepthSurface{Intrinsics: in, Rotation: skeleton.RotationY(0)}},
		{},
	}

	n, err := Attach(frames, dir, MillimetreScale, 0)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Attach() loaded %d, want 1", n)
	}
	d := frames[0].Depth
	if d.Width != 4 || d.Height != 3 || d.Intrinsics != in || d.Rotation[0] != 1 {
		t.Errorf("depth not merged: %+v", d)
	}

	t.Run("missing intrinsics", func(t *testing.T) {
		frames := []skeleton.Frame{{DepthFile: "f0.png"}}
		if _, err := Attach(frames, dir, MillimetreScale, 0); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		frames := []skeleton.Frame{{DepthFile: "nope.png", Depth: &skeleton.DepthSurface{Intrinsics: in}}}
		if _, err := Attach(frames, dir, MillimetreScale, 3); err == nil {
			t.Error("expected error")
		}
	})
}
