// Package geom provides the small set of 2D types shared by shapes, picking and
// the viewport. All coordinates are float64 image-space values unless noted.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D point. The JSON form {x, y} is the wire format for imports and exports.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return fromVec(r2.Sub(p.vec(), q.vec()))
}

// Distance returns the Euclidean distance to q.
func (p Point) Distance(q Point) float64 {
	return r2.Norm(p.Sub(q).vec())
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is an axis-aligned bounding box with x0<=x1 and y0<=y1.
type Bounds struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// BoundsOf returns the bounding box of pts, or false when pts is empty.
func BoundsOf(pts []Point) (Bounds, bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}

	b := Bounds{X0: pts[0].X, Y0: pts[0].Y, X1: pts[0].X, Y1: pts[0].Y}
	for _, p := range pts[1:] {
		b.X0 = math.Min(b.X0, p.X)
		b.X1 = math.Max(b.X1, p.X)
		b.Y0 = math.Min(b.Y0, p.Y)
		b.Y1 = math.Max(b.Y1, p.Y)
	}
	return b, true
}

// Min returns the top-left corner.
func (b Bounds) Min() Point { return Point{X: b.X0, Y: b.Y0} }

// Size returns the (non-negative) extents.
func (b Bounds) Size() Size { return Size{Width: b.X1 - b.X0, Height: b.Y1 - b.Y0} }

// ClosestOnSegment projects p onto the segment a-b. The projection parameter
// is clamped to [0, 1], so the result always lies on the segment. A degenerate
// segment (a == b) yields a.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a).vec()
	den := r2.Dot(ab, ab)
	if den == 0 {
		return a
	}

	u := r2.Dot(p.Sub(a).vec(), ab) / den
	u = math.Min(math.Max(u, 0), 1)

	return fromVec(r2.Add(a.vec(), r2.Scale(u, ab)))
}
