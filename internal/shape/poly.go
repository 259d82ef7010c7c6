package shape

import (
	"slices"

	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/geom"
)

const minPolyPoints = 3

// Polygons are open-ended: points keep coming until the caller finishes the
// shape. The outline is implicitly closed.
var polyBehavior = behavior{
	addPoint:         polyAddPoint,
	setPoint:         polySetPoint,
	insertPointAfter: polyInsertPointAfter,
	deletePoint:      polyDeletePoint,
	finish:           polyFinish,
	drawPoints:       func(s *Shape) []geom.Point { return s.pts },
	record:           polyRecord,
	canInsert:        true,
}

// polyAddPoint appends p. A draft keeps a live point at the end, so it stays
// invalid until Finish.
func polyAddPoint(s *Shape, p geom.Point) bool {
	s.pts = append(s.pts, p)
	if !s.live && len(s.pts) >= minPolyPoints {
		s.valid = true
	}
	return true
}

func polySetPoint(s *Shape, i int, p geom.Point) bool {
	if !s.inRange(i) {
		return false
	}
	s.pts[i] = p
	return true
}

func polyInsertPointAfter(s *Shape, i int, p geom.Point) bool {
	if !s.inRange(i) {
		return false
	}
	s.pts = slices.Insert(s.pts, i+1, p)
	return true
}

// polyDeletePoint never takes a valid polygon below three points.
func polyDeletePoint(s *Shape, i int) bool {
	if !s.inRange(i) {
		return false
	}
	if s.valid && len(s.pts) <= minPolyPoints {
		return false
	}
	s.pts = slices.Delete(s.pts, i, i+1)
	return true
}

// polyFinish drops the live point and any trailing repeats left by the clicks
// of a double-click.
func polyFinish(s *Shape) bool {
	if len(s.pts) > 0 {
		s.pts = s.pts[:len(s.pts)-1]
	}
	for n := len(s.pts); n >= 2 && s.pts[n-1] == s.pts[n-2]; n = len(s.pts) {
		s.pts = s.pts[:n-1]
	}
	s.valid = len(s.pts) >= minPolyPoints
	return s.valid
}

func polyRecord(s *Shape) document.ShapeRecord {
	return document.ShapeRecord{
		Type:   document.ShapePoly,
		Points: append([]geom.Point(nil), s.pts...),
	}
}
