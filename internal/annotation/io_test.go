package annotation

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/geom"
	"github.com/inamate/annotator/internal/shape"
)

const annotationsJSON = `{
	"Face": {"shapes": [
		{"type": "rect", "pos": {"x": -20, "y": -30}, "size": {"width": 40, "height": 60}},
		{"type": "rect", "pos": {"x": 1.5, "y": 2.5}, "size": {"width": 3, "height": 4}}
	]},
	"Mouth": {"shapes": [
		{"type": "poly", "points": [{"x": 0, "y": 0}, {"x": 10, "y": 0}, {"x": 5, "y": 8}]}
	]},
	"Hat": {"shapes": [
		{"type": "rect", "pos": {"x": 0, "y": 0}, "size": {"width": 1, "height": 1}}
	]}
}`

func loadAnnotations(t *testing.T) document.Annotations {
	t.Helper()
	var anns document.Annotations
	if err := json.Unmarshal([]byte(annotationsJSON), &anns); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return anns
}

func TestImportAnnotations(t *testing.T) {
	s := newTestStore()
	s.SelectNextFeature()
	s.ImportAnnotations(loadAnnotations(t))

	if s.FeatureIndex() != 0 || s.ShapeIndex() != 0 {
		t.Fatalf("selection: feature %d shape %d", s.FeatureIndex(), s.ShapeIndex())
	}

	feats := s.Features()
	if n := len(feats[0].Shapes); n != 2 {
		t.Fatalf("Face: got %d shapes", n)
	}
	face := feats[0].Shapes[0]
	if !face.IsValid() || face.Kind() != shape.Rect {
		t.Errorf("Face[0]: valid=%v kind=%q", face.IsValid(), face.Kind())
	}
	if !reflect.DeepEqual(face.Points(), []geom.Point{geom.Pt(-20, -30), geom.Pt(20, 30)}) {
		t.Errorf("Face[0] points: %v", face.Points())
	}

	if len(feats[1].Shapes) != 0 {
		t.Errorf("Eyes had no entry and should be empty, got %d", len(feats[1].Shapes))
	}
	if n := len(feats[2].Shapes); n != 1 || feats[2].Shapes[0].Kind() != shape.Poly {
		t.Errorf("Mouth: got %d shapes", n)
	}
}

func TestImportAnnotationsSeedsEmptyFirstFeature(t *testing.T) {
	s := newTestStore()
	s.ImportAnnotations(document.Annotations{})

	if len(s.Shapes()) != 1 || s.Current().IsValid() {
		t.Fatal("first feature should be seeded with one empty shape")
	}
}

func TestImportAnnotationsSkipsMalformed(t *testing.T) {
	s := newTestStore()
	pos := geom.Pt(0, 0)
	s.ImportAnnotations(document.Annotations{
		"Face": {Shapes: []document.ShapeRecord{
			{Type: document.ShapeRect, Pos: &pos},
			{Type: "circle"},
			{Type: document.ShapeRect, Pos: &pos, Size: &geom.Size{Width: 2, Height: 2}},
		}},
		"Mouth": {Shapes: []document.ShapeRecord{
			{Type: document.ShapePoly, Points: []geom.Point{{}, {X: 1}}},
		}},
	})

	if n := len(s.Features()[0].Shapes); n != 1 {
		t.Errorf("Face: got %d shapes, want 1", n)
	}
	if n := len(s.Features()[2].Shapes); n != 0 {
		t.Errorf("Mouth: got %d shapes, want 0", n)
	}
}

func TestImportAnnotationsWithoutFeatures(t *testing.T) {
	s := NewStore()
	s.ImportAnnotations(loadAnnotations(t))
	if len(s.ExportAnnotations()) != 0 {
		t.Fatal("nothing should be imported without features")
	}
}

func TestExportAnnotations(t *testing.T) {
	s := newTestStore()
	drawRect(s, geom.Pt(10, 10), geom.Pt(2, 50))
	s.SelectNextShape() // leaves an empty shape behind
	drawRect(s, geom.Pt(0, 0), geom.Pt(1, 1))
	s.DeleteCurrent()

	out := s.ExportAnnotations()

	if len(out) != 3 {
		t.Fatalf("expected an entry per feature, got %d", len(out))
	}
	face := out["Face"].Shapes
	if len(face) != 1 {
		t.Fatalf("Face: got %d records, want 1", len(face))
	}
	pos := geom.Pt(2, 10)
	size := geom.Size{Width: 8, Height: 40}
	want := document.ShapeRecord{Type: document.ShapeRect, Pos: &pos, Size: &size}
	if !reflect.DeepEqual(face[0], want) {
		t.Errorf("Face[0]: got %+v", face[0])
	}

	data, err := json.Marshal(out["Eyes"])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"shapes":[]}` {
		t.Errorf("empty feature should export an empty list, got %s", data)
	}
}

func TestExportSkipsPolygonBeingDrawn(t *testing.T) {
	s := newTestStore()
	s.SelectNextFeature()
	s.SelectNextFeature() // Mouth

	s.StartShape(geom.Pt(0, 0))
	s.NextPoint(geom.Pt(0, 0))
	s.NextPoint(geom.Pt(10, 0))
	s.NextPoint(geom.Pt(10, 10))
	s.ShowPoint(geom.Pt(99, 99))

	if got := s.ExportAnnotations()["Mouth"].Shapes; len(got) != 0 {
		t.Fatalf("unfinished polygon exported: %+v", got)
	}

	s.EndShape()
	got := s.ExportAnnotations()["Mouth"].Shapes
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}
	if len(got) != 1 || !reflect.DeepEqual(got[0].Points, want) {
		t.Errorf("finished polygon: got %+v", got)
	}
}

func TestExportImportExportIsIdempotent(t *testing.T) {
	s := newTestStore()
	s.ImportAnnotations(loadAnnotations(t))
	s.SelectNextFeature()
	s.SetCurrentKind(shape.Poly)
	drawPoly(s, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4), geom.Pt(0, 4))

	first := s.ExportAnnotations()

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	var decoded document.Annotations
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	other := newTestStore()
	other.ImportAnnotations(decoded)
	second := other.ExportAnnotations()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("round trip changed the export:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	s.ImportAnnotations(first)
	if third := s.ExportAnnotations(); !reflect.DeepEqual(first, third) {
		t.Fatalf("re-import into the same store changed the export")
	}
}
