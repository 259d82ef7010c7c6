package annotation

import (
	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/geom"
	"github.com/inamate/annotator/internal/shape"
	"github.com/inamate/annotator/internal/typeid"
)

// Feature is a label category and the shapes drawn for it.
type Feature struct {
	ID        string
	Name      string
	Required  bool
	ShapeKind document.ShapeType
	Shapes    []*shape.Shape
}

// LockedKind returns the kind this feature enforces, if any.
func (f *Feature) LockedKind() (shape.Kind, bool) {
	return shape.ParseKind(f.ShapeKind)
}

// Store owns the features, their shapes and the selection cursors. It is not
// safe for concurrent use; every method runs to completion on the caller's
// goroutine and notifies subscribers synchronously.
type Store struct {
	features []*Feature

	// scratch stands in for the current feature while none are loaded, so
	// there is always a shape list to draw into.
	scratch *Feature

	featureIndex int
	shapeIndex   int
	currentKind  shape.Kind
	drafting     bool

	subs      []subscriber
	nextSubID int
}

func NewStore() *Store {
	s := &Store{currentKind: shape.Rect}
	s.scratch = s.newScratch()
	return s
}

func (s *Store) newScratch() *Feature {
	return &Feature{
		ShapeKind: document.ShapeAny,
		Shapes:    []*shape.Shape{shape.New(s.currentKind)},
	}
}

// --- Queries ---

// Features returns the loaded features in order. Callers must not modify the slice.
func (s *Store) Features() []*Feature { return s.features }

// CurrentFeature returns the selected feature, or nil if none are loaded.
func (s *Store) CurrentFeature() *Feature {
	if len(s.features) == 0 {
		return nil
	}
	return s.features[s.featureIndex]
}

func (s *Store) feature() *Feature {
	if f := s.CurrentFeature(); f != nil {
		return f
	}
	return s.scratch
}

// Shapes is the shape list of the selected feature. It is derived on every
// call, never cached.
func (s *Store) Shapes() []*shape.Shape { return s.feature().Shapes }

// Current returns the selected shape. The list is never empty, so this is never nil.
func (s *Store) Current() *shape.Shape { return s.Shapes()[s.shapeIndex] }

func (s *Store) FeatureIndex() int { return s.featureIndex }

func (s *Store) ShapeIndex() int { return s.shapeIndex }

func (s *Store) CurrentKind() shape.Kind { return s.currentKind }

// Drafting reports whether a shape is being drawn.
func (s *Store) Drafting() bool { return s.drafting }

// --- Drawing ---

// StartShape begins a new shape of the current kind at p. An invalid current
// shape is replaced in place; otherwise the draft opens a new slot at the end.
func (s *Store) StartShape(p geom.Point) {
	s.endDraft()

	f := s.feature()
	draft := shape.Start(s.currentKind, p)
	if !s.Current().IsValid() {
		f.Shapes[s.shapeIndex] = draft
	} else {
		f.Shapes = append(f.Shapes, draft)
		s.shapeIndex = len(f.Shapes) - 1
		s.purgeInvalid()
	}

	s.drafting = true
	s.changed()
}

// NextPoint commits a point at p and reports whether the shape takes more.
// Rects complete on their second point; polygons continue until EndShape.
func (s *Store) NextPoint(p geom.Point) bool {
	if !s.drafting {
		return false
	}

	cur := s.Current()
	more := false
	switch cur.Kind() {
	case shape.Poly:
		pts := cur.Points()
		n := len(pts)
		cur.SetLastPoint(p)
		// A click on the last committed point only moves the live point.
		if n >= 2 && pts[n-2] == p {
			more = true
		} else {
			more = cur.AddPoint(p)
		}
	default:
		more = cur.AddPoint(p)
	}

	s.drafting = more
	s.changed()
	return more
}

// ShowPoint moves the live point of the draft without committing it.
func (s *Store) ShowPoint(p geom.Point) {
	if !s.drafting {
		return
	}
	s.Current().SetLastPoint(p)
	s.changed()
}

// EndShape finishes a polygon draft. Fewer than three points leave the shape
// invalid. Rects end themselves on their second point.
func (s *Store) EndShape() {
	if !s.drafting || s.Current().Kind() != shape.Poly {
		return
	}
	s.endDraft()
	s.changed()
}

func (s *Store) endDraft() {
	if !s.drafting {
		return
	}
	s.drafting = false

	cur := s.Current()
	if cur.Kind() == shape.Poly {
		if !cur.Finish() {
			cur.Invalidate()
		}
		return
	}
	// A rect still drafting never received its second point.
	cur.Invalidate()
}

// DeleteCurrent invalidates the selected shape. It stays in the list until the
// selection moves away. Whether a required feature may lose shapes is up to
// the caller.
func (s *Store) DeleteCurrent() {
	s.drafting = false
	s.Current().Invalidate()
	s.changed()
}

// SetCurrentKind sets the kind used for new shapes. Existing shapes keep theirs.
func (s *Store) SetCurrentKind(kind shape.Kind) {
	if _, ok := shape.ParseKind(document.ShapeType(kind)); !ok {
		return
	}
	s.currentKind = kind
}

// --- Direct edits ---

// MovePoint moves point i of sh, which must belong to this store.
func (s *Store) MovePoint(sh *shape.Shape, i int, p geom.Point) bool {
	if !sh.SetPoint(i, p) {
		return false
	}
	s.changed()
	return true
}

// InsertPoint inserts p after point i of sh.
func (s *Store) InsertPoint(sh *shape.Shape, i int, p geom.Point) bool {
	if !sh.InsertPointAfter(i, p) {
		return false
	}
	s.changed()
	return true
}

// RemovePoint deletes point i of sh.
func (s *Store) RemovePoint(sh *shape.Shape, i int) bool {
	if !sh.DeletePoint(i) {
		return false
	}
	s.changed()
	return true
}

// --- Selection ---

func (s *Store) SelectNextShape() {
	s.endDraft()

	s.shapeIndex++
	if s.shapeIndex >= len(s.Shapes()) {
		f := s.feature()
		f.Shapes = append(f.Shapes, shape.New(s.currentKind))
		s.shapeIndex = len(f.Shapes) - 1
	}

	s.purgeInvalid()
	s.changed()
}

func (s *Store) SelectPrevShape() {
	s.endDraft()

	s.shapeIndex--
	if s.shapeIndex < 0 {
		s.shapeIndex = 0
	}

	s.purgeInvalid()
	s.changed()
}

func (s *Store) SelectNextFeature() { s.selectFeature(s.featureIndex + 1) }

func (s *Store) SelectPrevFeature() { s.selectFeature(s.featureIndex - 1) }

func (s *Store) selectFeature(i int) {
	if len(s.features) == 0 {
		return
	}
	s.endDraft()

	// Nothing in the feature being left is selected any more.
	s.shapeIndex = -1
	s.purgeInvalid()

	if i >= len(s.features) {
		i = len(s.features) - 1
	}
	if i < 0 {
		i = 0
	}
	s.featureIndex = i
	s.featureChanged()
}

// featureChanged re-derives the selection for the current feature.
func (s *Store) featureChanged() {
	f := s.feature()

	kind, locked := f.LockedKind()
	if locked {
		s.currentKind = kind
	}
	s.emit(Event{Type: EventShapeKindLocked, Kind: s.currentKind, Locked: locked})

	s.shapeIndex = 0
	if len(f.Shapes) == 0 {
		f.Shapes = append(f.Shapes, shape.New(s.currentKind))
	}
	s.purgeInvalid()
	s.changed()
}

// purgeInvalid drops every invalid shape other than the selected one.
func (s *Store) purgeInvalid() {
	f := s.feature()
	kept := f.Shapes[:0]
	sel := s.shapeIndex

	for i, sh := range f.Shapes {
		if i != s.shapeIndex && !sh.IsValid() {
			if i < s.shapeIndex {
				sel--
			}
			continue
		}
		kept = append(kept, sh)
	}

	clear(f.Shapes[len(kept):])
	f.Shapes = kept
	s.shapeIndex = sel
}

// Reset drops all features and shapes.
func (s *Store) Reset() {
	s.features = nil
	s.scratch = s.newScratch()
	s.featureIndex = 0
	s.shapeIndex = 0
	s.drafting = false
	s.changed()
}

func newFeature(rec document.FeatureRecord) *Feature {
	kind := rec.Shape
	if _, ok := shape.ParseKind(kind); !ok {
		kind = document.ShapeAny
	}
	return &Feature{
		ID:        typeid.NewFeatureID(),
		Name:      rec.Name,
		Required:  rec.Required,
		ShapeKind: kind,
	}
}
