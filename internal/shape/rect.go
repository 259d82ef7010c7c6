package shape

import (
	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/geom"
)

// A rect stores two opposite corners exactly as placed; min/max are derived on
// demand.
var rectBehavior = behavior{
	addPoint:         rectAddPoint,
	setPoint:         rectSetPoint,
	insertPointAfter: func(*Shape, int, geom.Point) bool { return false },
	deletePoint:      func(*Shape, int) bool { return false },
	finish:           rectFinish,
	drawPoints:       rectDrawPoints,
	record:           rectRecord,
}

func rectAddPoint(s *Shape, p geom.Point) bool {
	switch {
	case len(s.pts) == 0:
		s.pts = append(s.pts, p)
		return true
	case len(s.pts) == 1:
		s.pts = append(s.pts, p)
		s.valid = true
		return false
	case len(s.pts) == 2 && !s.valid:
		// Draft: the second point is the live drag corner.
		s.pts[1] = p
		s.valid = true
		s.live = false
		return false
	default:
		return false
	}
}

func rectSetPoint(s *Shape, i int, p geom.Point) bool {
	if !s.inRange(i) || i > 1 {
		return false
	}
	s.pts[i] = p
	return true
}

func rectFinish(s *Shape) bool {
	s.valid = len(s.pts) == 2
	return s.valid
}

func rectDrawPoints(s *Shape) []geom.Point {
	b, ok := s.Bounds()
	if !ok || len(s.pts) < 2 {
		return append([]geom.Point(nil), s.pts...)
	}
	return []geom.Point{
		{X: b.X0, Y: b.Y0},
		{X: b.X1, Y: b.Y0},
		{X: b.X1, Y: b.Y1},
		{X: b.X0, Y: b.Y1},
	}
}

func rectRecord(s *Shape) document.ShapeRecord {
	b, _ := s.Bounds()
	pos := b.Min()
	size := b.Size()
	return document.ShapeRecord{
		Type: document.ShapeRect,
		Pos:  &pos,
		Size: &size,
	}
}
