// Package render compiles the annotation store into a draw command buffer.
// The frontend receives the buffer as JSON and replays it on a Canvas2D
// context; no pixels are produced here.
package render

import (
	"encoding/json"

	"github.com/inamate/annotator/internal/annotation"
	"github.com/inamate/annotator/internal/geom"
	"github.com/inamate/annotator/internal/shape"
	"github.com/inamate/annotator/internal/viewport"
)

// Draw operations.
const (
	OpClear       = "clear"       // fill the whole canvas, identity transform
	OpImage       = "image"       // draw Src at At with Width x Height
	OpPlaceholder = "placeholder" // fill the image rect and print Text
	OpPath        = "path"        // stroke Path
	OpPoint       = "point"       // fill a circle of Radius at At
)

const (
	strokeWidth  = 1.5
	pointRadius  = 3.0
	noImageText  = "No Image"
	markerColour = "#ffffff"
)

// PathCommand is one path segment: ["M", x, y], ["L", x, y] or ["Z"].
type PathCommand []any

// DrawCommand represents a single drawing operation for the frontend to execute.
type DrawCommand struct {
	Op          string        `json:"op"`
	ShapeID     string        `json:"shapeId,omitempty"`   // For hit correlation
	Feature     string        `json:"feature,omitempty"`   // Owning feature name
	Transform   []float64     `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`
	At          *geom.Point   `json:"at,omitempty"`
	Width       float64       `json:"width,omitempty"`
	Height      float64       `json:"height,omitempty"`
	Radius      float64       `json:"radius,omitempty"`
	Fill        string        `json:"fill,omitempty"`
	Stroke      string        `json:"stroke,omitempty"`
	StrokeWidth float64       `json:"strokeWidth,omitempty"`
	Src         string        `json:"src,omitempty"`
	Text        string        `json:"text,omitempty"`
}

// Compile generates the draw command buffer for one frame, in painter's order
// (back to front). src is drawn once the viewport has a bound image; until
// then a placeholder fills the image area.
func Compile(s *annotation.Store, vp *viewport.Viewport, src string) []DrawCommand {
	xf := vp.Matrix().ToSlice()
	scale := vp.Scale()
	size := vp.Size()
	img := vp.ImageBounds()
	origin := geom.Pt(img.X0, img.Y0)

	commands := []DrawCommand{{
		Op:     OpClear,
		Width:  size.Width,
		Height: size.Height,
		Fill:   background.Hex(),
	}}

	if vp.HasImage() && src != "" {
		commands = append(commands, DrawCommand{
			Op:        OpImage,
			Transform: xf,
			At:        &origin,
			Width:     img.X1 - img.X0,
			Height:    img.Y1 - img.Y0,
			Src:       src,
		})
	} else {
		commands = append(commands, DrawCommand{
			Op:        OpPlaceholder,
			Transform: xf,
			At:        &origin,
			Width:     img.X1 - img.X0,
			Height:    img.Y1 - img.Y0,
			Fill:      placeholder.Hex(),
			Text:      noImageText,
		})
	}

	current := s.Current()
	for i, g := range layers(s) {
		colour := FeatureColor(i)
		for _, sh := range g.shapes {
			draft := s.Drafting() && sh == current
			if !sh.IsValid() && !draft {
				continue
			}

			c := colour
			if draft {
				c = DraftColor(c)
			}
			stroke := c.Hex()
			fill := stroke
			if sh == current {
				fill = markerColour
			}

			pts := sh.DrawPoints()
			commands = append(commands, DrawCommand{
				Op:          OpPath,
				ShapeID:     sh.ID,
				Feature:     g.name,
				Transform:   xf,
				Path:        outline(pts),
				Stroke:      stroke,
				StrokeWidth: strokeWidth / scale,
			})
			for _, p := range pts {
				commands = append(commands, DrawCommand{
					Op:        OpPoint,
					ShapeID:   sh.ID,
					Feature:   g.name,
					Transform: xf,
					At:        &p,
					Radius:    pointRadius / scale,
					Fill:      fill,
				})
			}
		}
	}

	return commands
}

type layer struct {
	name   string
	shapes []*shape.Shape
}

// layers lists the shapes to draw grouped by feature. With no features loaded
// the store's scratch list is the only layer.
func layers(s *annotation.Store) []layer {
	feats := s.Features()
	if len(feats) == 0 {
		return []layer{{shapes: s.Shapes()}}
	}
	out := make([]layer, len(feats))
	for i, f := range feats {
		out[i] = layer{name: f.Name, shapes: f.Shapes}
	}
	return out
}

// outline builds the path through pts, closed once it encloses an area.
func outline(pts []geom.Point) []PathCommand {
	if len(pts) == 0 {
		return nil
	}
	path := make([]PathCommand, 0, len(pts)+1)
	path = append(path, PathCommand{"M", pts[0].X, pts[0].Y})
	for _, p := range pts[1:] {
		path = append(path, PathCommand{"L", p.X, p.Y})
	}
	if len(pts) >= 3 {
		path = append(path, PathCommand{"Z"})
	}
	return path
}

// ToJSON serializes draw commands to JSON.
func ToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
