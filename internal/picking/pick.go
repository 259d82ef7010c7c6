// Package picking finds the stored point or outline edge nearest to an
// image-space position, across every shape of every feature.
//
// Scan order is feature order, then shape order within a feature, then point
// or edge order within a shape. On an exact distance tie the first match wins,
// so results are deterministic for a given store.
package picking

import (
	"math"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geom"
	"github.com/inamate/annotator/internal/shape"
)

// PointPick is the result of NearestPoint. Shape is nil and Distance is +Inf
// when nothing was found. The shape reference is only valid until the store
// is next mutated.
type PointPick struct {
	Point    geom.Point
	Distance float64
	Shape    *shape.Shape
	Index    int // index into Shape.Points()
}

func (p PointPick) Found() bool { return p.Shape != nil }

// EdgePick is the result of NearestEdge. Point is the closest position on the
// edge; I0 and I1 index the edge's endpoints in Shape.DrawPoints().
type EdgePick struct {
	Point    geom.Point
	Distance float64
	Shape    *shape.Shape
	I0, I1   int
}

func (p EdgePick) Found() bool { return p.Shape != nil }

// NearestPoint returns the stored point closest to q.
func NearestPoint(features []*annotation.Feature, q geom.Point) PointPick {
	pick := PointPick{Distance: math.Inf(1)}

	for _, f := range features {
		for _, sh := range f.Shapes {
			for i, p := range sh.Points() {
				if d := q.Distance(p); d < pick.Distance {
					pick = PointPick{Point: p, Distance: d, Shape: sh, Index: i}
				}
			}
		}
	}

	return pick
}

// NearestEdge returns the closest position on any outline segment. Segments
// join consecutive drawing points only; there is no last-to-first edge, and
// segments whose endpoints coincide are skipped.
func NearestEdge(features []*annotation.Feature, q geom.Point) EdgePick {
	pick := EdgePick{Distance: math.Inf(1)}

	for _, f := range features {
		for _, sh := range f.Shapes {
			pts := sh.DrawPoints()

			for i := 0; i < len(pts)-1; i++ {
				j := i + 1
				if pts[i] == pts[j] {
					continue
				}
				c := geom.ClosestOnSegment(q, pts[i], pts[j])
				if d := q.Distance(c); d < pick.Distance {
					pick = EdgePick{Point: c, Distance: d, Shape: sh, I0: i, I1: j}
				}
			}
		}
	}

	return pick
}
