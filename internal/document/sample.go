package document

import "github.com/inamate/annotator/internal/geom"

// NewSampleInput returns a small face-labelling session: one required box, one
// free-form feature and one polygon, with a few shapes already drawn.
func NewSampleInput(src string) *Input {
	pos := geom.Pt(-120, -150)
	size := geom.Size{Width: 240, Height: 300}

	return &Input{
		Src:    src,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Features: []FeatureRecord{
			{Name: "Face", Required: true, Shape: ShapeRect},
			{Name: "Eyes", Required: false, Shape: ShapeAny},
			{Name: "Mouth", Required: false, Shape: ShapePoly},
		},
		Annotations: Annotations{
			"Face": {
				Shapes: []ShapeRecord{
					{Type: ShapeRect, Pos: &pos, Size: &size},
				},
			},
			"Mouth": {
				Shapes: []ShapeRecord{
					{Type: ShapePoly, Points: []geom.Point{
						geom.Pt(-50, 60),
						geom.Pt(0, 40),
						geom.Pt(50, 60),
						geom.Pt(0, 90),
					}},
				},
			},
		},
	}
}
