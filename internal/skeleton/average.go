package skeleton

import (
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/bodyscan/internal/body"
)

// Average returns the per-joint arithmetic mean of frames. Every joint of
// the first frame is averaged over the frames that observed it; joints the
// first frame lacks are dropped. The timestamp and depth of the first frame
// are kept as reference.
//
// Average panics if frames is empty.
func Average(frames []Frame) Frame {
	if len(frames) == 0 {
		panic("skeleton: Average of zero frames")
	}

	ref := frames[0]
	out := Frame{
		Timestamp: ref.Timestamp,
		Joints:    make(map[body.Joint]r3.Vector, len(ref.Joints)),
		Depth:     ref.Depth,
		DepthFile: ref.DepthFile,
	}
	for j := range ref.Joints {
		var sum r3.Vector
		var n int
		for _, f := range frames {
			if p, ok := f.Joints[j]; ok {
				sum = sum.Add(p)
				n++
			}
		}
		out.Joints[j] = sum.Mul(1 / float64(n))
	}
	return out
}

// Jitter summarises how far a joint strayed from its averaged position.
type Jitter struct {
	Joint   body.Joint
	Mean    float64
	StdDev  float64
	Samples int
}

// Spread reports per-joint jitter of frames around avg, largest mean first.
// Distances are in the frames' unit.
func Spread(frames []Frame, avg Frame) []Jitter {
	out := make([]Jitter, 0, len(avg.Joints))
	for j, center := range avg.Joints {
		var dist []float64
		for _, f := range frames {
			if p, ok := f.Joints[j]; ok {
				dist = append(dist, p.Sub(center).Norm())
			}
		}
		if len(dist) == 0 {
			continue
		}
		jt := Jitter{Joint: j, Samples: len(dist)}
		if len(dist) == 1 {
			jt.Mean = dist[0]
		} else {
			jt.Mean, jt.StdDev = stat.MeanStdDev(dist, nil)
		}
		out = append(out, jt)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Mean != out[b].Mean {
			return out[a].Mean > out[b].Mean
		}
		return out[a].Joint < out[b].Joint
	})
	return out
}
