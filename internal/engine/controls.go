package engine

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/annotator/internal/shape"
)

// ControlState is everything the toolbar needs to draw itself.
type ControlState struct {
	Title        string     `json:"title"`
	Feature      string     `json:"feature"`
	FeatureIndex int        `json:"featureIndex"`
	FeatureCount int        `json:"featureCount"`
	ShapeIndex   int        `json:"shapeIndex"`
	ShapeCount   int        `json:"shapeCount"`
	Kind         shape.Kind `json:"kind"`
	KindLocked   bool       `json:"kindLocked"`
	Tool         Tool       `json:"tool"`
	Drafting     bool       `json:"drafting"`

	CanPrevFeature bool `json:"canPrevFeature"`
	CanNextFeature bool `json:"canNextFeature"`
	CanPrevShape   bool `json:"canPrevShape"`
	CanNextShape   bool `json:"canNextShape"`
	CanDelete      bool `json:"canDelete"`
}

// Controls derives the control state from the store.
//
// Next shape is allowed while the current shape is valid, or when the one
// after it is. Delete is refused for invalid shapes and for every shape of a
// required feature.
func (e *Engine) Controls() ControlState {
	s := e.store
	shapes := s.Shapes()
	cur := s.Current()
	idx := s.ShapeIndex()

	nextValid := idx+1 < len(shapes) && shapes[idx+1].IsValid()

	st := ControlState{
		FeatureIndex: s.FeatureIndex(),
		FeatureCount: len(s.Features()),
		ShapeIndex:   idx,
		ShapeCount:   len(shapes),
		Kind:         s.CurrentKind(),
		KindLocked:   e.kindLocked,
		Tool:         e.tool,
		Drafting:     s.Drafting(),
		CanPrevShape: idx > 0,
		CanNextShape: cur.IsValid() || nextValid,
		CanDelete:    cur.IsValid(),
	}

	if f := s.CurrentFeature(); f != nil {
		st.Feature = f.Name
		st.Title = fmt.Sprintf("Annotating: %s (%d/%d)", f.Name, st.FeatureIndex+1, st.FeatureCount)
		st.CanPrevFeature = st.FeatureIndex > 0
		st.CanNextFeature = st.FeatureIndex < st.FeatureCount-1
		st.CanDelete = st.CanDelete && !f.Required
	}

	return st
}

// ControlsJSON returns Controls as JSON.
func (e *Engine) ControlsJSON() string {
	data, _ := json.Marshal(e.Controls())
	return string(data)
}
