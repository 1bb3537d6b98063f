package skeleton

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/ayusman/bodyscan/internal/body"
)

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type jsonDepth struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Values      []float64  `json:"values"`
	Intrinsics  Intrinsics `json:"intrinsics"`
	Rotation    []float64  `json:"rotation,omitempty"`
	Translation []float64  `json:"translation,omitempty"`
}

type jsonFrame struct {
	Timestamp float64              `json:"timestamp"`
	Joints    map[string]jsonPoint `json:"joints"`
	Depth     *jsonDepth           `json:"depth,omitempty"`
	DepthFile string               `json:"depth_file,omitempty"`
}

// DecodeFrames reads a JSON array of frames, or an object with a "frames"
// array, from r.
func DecodeFrames(r io.Reader) ([]Frame, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode frames")
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var frames []Frame
		if err := json.Unmarshal(raw, &frames); err != nil {
			return nil, errors.Wrap(err, "decode frames")
		}
		return frames, nil
	}
	var wrapped struct {
		Frames []Frame `json:"frames"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "decode frames")
	}
	return wrapped.Frames, nil
}

// UnmarshalJSON decodes a frame, resolving joint aliases. When several names
// resolve to the same joint the lowest-ranked name wins.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var jf jsonFrame
	if err := json.Unmarshal(data, &jf); err != nil {
		return err
	}

	names := make([]string, 0, len(jf.Joints))
	for name := range jf.Joints {
		names = append(names, name)
	}
	sort.Strings(names)

	joints := make(map[body.Joint]r3.Vector, len(names))
	ranks := make(map[body.Joint]int, len(names))
	for _, name := range names {
		j, rank, ok := body.Lookup(name)
		if !ok {
			continue
		}
		if prev, seen := ranks[j]; seen && prev <= rank {
			continue
		}
		p := jf.Joints[name]
		v := r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
		if !finiteVector(v) {
			return errors.Errorf("joint %q: non-finite position", name)
		}
		joints[j] = v
		ranks[j] = rank
	}

	*f = Frame{Timestamp: jf.Timestamp, Joints: joints, DepthFile: jf.DepthFile}
	if jf.Depth != nil {
		d, err := jf.Depth.surface(jf.DepthFile != "")
		if err != nil {
			return err
		}
		f.Depth = d
	}
	return nil
}

// MarshalJSON writes the frame with semantic joint names.
func (f Frame) MarshalJSON() ([]byte, error) {
	jf := jsonFrame{
		Timestamp: f.Timestamp,
		Joints:    make(map[string]jsonPoint, len(f.Joints)),
		DepthFile: f.DepthFile,
	}
	for j, v := range f.Joints {
		jf.Joints[string(j)] = jsonPoint{X: v.X, Y: v.Y, Z: v.Z}
	}
	if d := f.Depth; d != nil {
		jf.Depth = &jsonDepth{
			Width:       d.Width,
			Height:      d.Height,
			Values:      d.Values,
			Intrinsics:  d.Intrinsics,
			Translation: []float64{d.Translation.X, d.Translation.Y, d.Translation.Z},
		}
		if d.Rotation != ([9]float64{}) {
			jf.Depth.Rotation = d.Rotation[:]
		}
	}
	return json.Marshal(jf)
}

// surface validates a decoded depth block. When the grid lives in an
// external file only the camera parameters are required here.
func (jd *jsonDepth) surface(external bool) (*DepthSurface, error) {
	if jd.Width < 0 || jd.Height < 0 || jd.Width > MaxDepthSide || jd.Height > MaxDepthSide {
		return nil, errors.Errorf("depth: invalid size %dx%d", jd.Width, jd.Height)
	}
	switch {
	case external && len(jd.Values) == 0:
		// the file's own size replaces whatever was declared
		jd.Width, jd.Height = 0, 0
	case jd.Width == 0 || jd.Height == 0:
		return nil, errors.Errorf("depth: invalid size %dx%d", jd.Width, jd.Height)
	case len(jd.Values) != jd.Width*jd.Height:
		return nil, errors.Errorf("depth: %d values for %dx%d grid", len(jd.Values), jd.Width, jd.Height)
	}
	if jd.Intrinsics.Fx <= 0 || jd.Intrinsics.Fy <= 0 {
		return nil, errors.New("depth: focal lengths must be positive")
	}
	d := &DepthSurface{
		Width:      jd.Width,
		Height:     jd.Height,
		Values:     jd.Values,
		Intrinsics: jd.Intrinsics,
	}
	switch len(jd.Rotation) {
	case 0:
	case 9:
		copy(d.Rotation[:], jd.Rotation)
	default:
		return nil, errors.Errorf("depth: rotation needs 9 values, got %d", len(jd.Rotation))
	}
	switch len(jd.Translation) {
	case 0:
	case 3:
		d.Translation = r3.Vector{X: jd.Translation[0], Y: jd.Translation[1], Z: jd.Translation[2]}
	default:
		return nil, errors.Errorf("depth: translation needs 3 values, got %d", len(jd.Translation))
	}
	return d, nil
}

func finiteVector(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
