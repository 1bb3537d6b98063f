package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/stat"
)

// RemoveOutliers drops points whose mean distance to their k nearest
// neighbours exceeds the cloud-wide mean of that quantity by more than
// stddevMult standard deviations. Clouds with no more than k points are
// returned unchanged.
func RemoveOutliers(c Cloud, k int, stddevMult float64) Cloud {
	if k < 1 || len(c) <= k {
		return append(Cloud(nil), c...)
	}

	means := MeanNeighbourDistances(c, k)
	mean, std := stat.MeanStdDev(means, nil)
	limit := mean + stddevMult*std

	out := make(Cloud, 0, len(c))
	for i, p := range c {
		if means[i] <= limit {
			out = append(out, p)
		}
	}
	return out
}

// MeanNeighbourDistances returns, for every point, the mean Euclidean
// distance to its k nearest other points. c must hold more than k points.
func MeanNeighbourDistances(c Cloud, k int) []float64 {
	pts := make(kdtree.Points, len(c))
	for i, p := range c {
		pts[i] = point(p)
	}
	// New reorders its input.
	tree := kdtree.New(append(kdtree.Points(nil), pts...), false)

	means := make([]float64, len(c))
	for i, q := range pts {
		keeper := kdtree.NewNKeeper(k + 1)
		tree.NearestSet(keeper, q)

		var sum float64
		var n int
		self := false
		for _, cd := range keeper.Heap {
			if cd.Comparable == nil {
				continue
			}
			// The query point is in the tree; skip one zero-distance hit.
			if !self && cd.Dist == 0 {
				self = true
				continue
			}
			sum += math.Sqrt(cd.Dist)
			n++
		}
		if n > 0 {
			means[i] = sum / float64(n)
		}
	}
	return means
}

func point(v r3.Vector) kdtree.Point {
	return kdtree.Point{v.X, v.Y, v.Z}
}
