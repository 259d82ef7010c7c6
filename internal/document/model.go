package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/annotator/internal/geom"
)

var (
	ErrMissingSource   = errors.New("input src (image source) is required")
	ErrMissingFeatures = errors.New("input feature array is required")
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

type ShapeType string

const (
	ShapeRect ShapeType = "rect"
	ShapePoly ShapeType = "poly"
	ShapeAny  ShapeType = "any"
)

// FeatureRecord is one entry of the imported feature list.
type FeatureRecord struct {
	Name     string    `json:"name"`
	Required bool      `json:"required"`
	Shape    ShapeType `json:"shape"`
}

// ShapeRecord is one shape in the import/export format. Rects carry Pos and
// Size, polygons carry Points.
type ShapeRecord struct {
	Type   ShapeType    `json:"type"`
	Pos    *geom.Point  `json:"pos,omitempty"`
	Size   *geom.Size   `json:"size,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
}

type FeatureAnnotations struct {
	Shapes []ShapeRecord `json:"shapes"`
}

// Annotations maps feature name to that feature's shapes.
type Annotations map[string]FeatureAnnotations

type Style struct {
	Classes string            `json:"classes,omitempty"`
	CSS     map[string]string `json:"css,omitempty"`
}

// Input is the caller-facing plugin record.
type Input struct {
	Src         string          `json:"src"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
	Features    []FeatureRecord `json:"features"`
	Annotations Annotations     `json:"annotations,omitempty"`
	Style       *Style          `json:"style,omitempty"`
}

// Validate checks the required fields and fills in the default canvas size.
func (in *Input) Validate() error {
	if in.Src == "" {
		return ErrMissingSource
	}
	if in.Features == nil {
		return ErrMissingFeatures
	}
	if in.Width <= 0 {
		in.Width = DefaultWidth
	}
	if in.Height <= 0 {
		in.Height = DefaultHeight
	}
	return nil
}

// ParseInput decodes and validates a plugin input record.
func ParseInput(data []byte) (*Input, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}
