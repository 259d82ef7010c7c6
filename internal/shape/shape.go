// Package shape implements the annotation shapes. A Shape is a tagged union over
// the supported kinds; kind-specific behaviour lives in a table of per-kind
// functions rather than behind an interface, so every shape shares one
// concrete type and the store can hold them in plain slices.
package shape

import (
	"fmt"

	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/geom"
	"github.com/inamate/annotator/internal/typeid"
)

type Kind string

const (
	Rect Kind = "rect"
	Poly Kind = "poly"
)

// ParseKind maps a wire shape type onto a Kind. "any" and unknown names are
// reported as not ok.
func ParseKind(s document.ShapeType) (Kind, bool) {
	switch Kind(s) {
	case Rect, Poly:
		return Kind(s), true
	default:
		return "", false
	}
}

// Shape is one annotation instance. Points are stored in image space.
type Shape struct {
	ID    string
	kind  Kind
	valid bool
	pts   []geom.Point

	// live is set while the last point follows the pointer and is not yet
	// committed. A live shape only becomes valid through Finish.
	live bool
}

type behavior struct {
	addPoint         func(s *Shape, p geom.Point) bool
	setPoint         func(s *Shape, i int, p geom.Point) bool
	insertPointAfter func(s *Shape, i int, p geom.Point) bool
	deletePoint      func(s *Shape, i int) bool
	finish           func(s *Shape) bool
	drawPoints       func(s *Shape) []geom.Point
	record           func(s *Shape) document.ShapeRecord
	canInsert        bool
}

var behaviors = map[Kind]behavior{
	Rect: rectBehavior,
	Poly: polyBehavior,
}

// New returns an empty, invalid shape. Unknown kinds fall back to Rect.
func New(kind Kind) *Shape {
	if _, ok := behaviors[kind]; !ok {
		kind = Rect
	}
	return &Shape{
		ID:   typeid.NewShapeID(),
		kind: kind,
	}
}

// Start returns a draft shape anchored at p. The anchor doubles as the live
// point that SetLastPoint moves until the next point is committed.
func Start(kind Kind, p geom.Point) *Shape {
	s := New(kind)
	s.pts = []geom.Point{p, p}
	s.live = true
	return s
}

// FromRecord builds a valid shape from an import record.
func FromRecord(rec document.ShapeRecord) (*Shape, error) {
	kind, ok := ParseKind(rec.Type)
	if !ok {
		return nil, fmt.Errorf("unknown shape type %q", rec.Type)
	}

	s := New(kind)
	switch kind {
	case Rect:
		if rec.Pos == nil || rec.Size == nil {
			return nil, fmt.Errorf("rect record needs pos and size")
		}
		s.pts = []geom.Point{
			*rec.Pos,
			{X: rec.Pos.X + rec.Size.Width, Y: rec.Pos.Y + rec.Size.Height},
		}
	case Poly:
		if len(rec.Points) < minPolyPoints {
			return nil, fmt.Errorf("polygon record needs at least %d points, got %d", minPolyPoints, len(rec.Points))
		}
		s.pts = append([]geom.Point(nil), rec.Points...)
	}
	s.valid = true
	return s, nil
}

func (s *Shape) ops() behavior { return behaviors[s.kind] }

func (s *Shape) Kind() Kind { return s.kind }

func (s *Shape) IsValid() bool { return s.valid }

// Invalidate marks the shape for removal. The store drops invalid shapes the
// next time the selection moves away from them.
func (s *Shape) Invalidate() { s.valid = false }

func (s *Shape) NumPoints() int { return len(s.pts) }

// Points returns the stored points as the user interacts with them. The slice
// is owned by the shape and must not be modified.
func (s *Shape) Points() []geom.Point { return s.pts }

// AddPoint appends p if the shape still accepts points. It returns false once
// the shape is complete.
func (s *Shape) AddPoint(p geom.Point) bool { return s.ops().addPoint(s, p) }

// SetLastPoint moves the most recent point, used for live preview.
func (s *Shape) SetLastPoint(p geom.Point) {
	if len(s.pts) > 0 {
		s.pts[len(s.pts)-1] = p
	}
}

func (s *Shape) SetPoint(i int, p geom.Point) bool { return s.ops().setPoint(s, i, p) }

func (s *Shape) InsertPointAfter(i int, p geom.Point) bool {
	return s.ops().insertPointAfter(s, i, p)
}

func (s *Shape) DeletePoint(i int) bool { return s.ops().deletePoint(s, i) }

func (s *Shape) CanInsertPoint() bool { return s.ops().canInsert }

// Finish completes a draft: it drops the live point where the kind keeps one
// and reports whether the result is a valid shape.
func (s *Shape) Finish() bool {
	s.live = false
	return s.ops().finish(s)
}

// Live reports whether the last point is an uncommitted preview.
func (s *Shape) Live() bool { return s.live }

// DrawPoints returns the outline to draw, implicitly closed.
func (s *Shape) DrawPoints() []geom.Point { return s.ops().drawPoints(s) }

// Record returns the export record for the shape.
func (s *Shape) Record() document.ShapeRecord { return s.ops().record(s) }

// Bounds returns the bounding box of the stored points, or false if there are none.
func (s *Shape) Bounds() (geom.Bounds, bool) { return geom.BoundsOf(s.pts) }

func (s *Shape) inRange(i int) bool { return i >= 0 && i < len(s.pts) }
