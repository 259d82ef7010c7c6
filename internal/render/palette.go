package render

import "github.com/lucasb-eyer/go-colorful"

// Feature colours, cycled by feature index.
var palette = []colorful.Color{
	{R: 255 / 255.0, G: 20 / 255.0, B: 20 / 255.0},
	{R: 0, G: 200 / 255.0, B: 0},
	{R: 0, G: 0, B: 255 / 255.0},
	{R: 255 / 255.0, G: 255 / 255.0, B: 0},
	{R: 50 / 255.0, G: 200 / 255.0, B: 200 / 255.0},
}

var (
	white = colorful.Color{R: 1, G: 1, B: 1}

	background  = colorful.Color{R: 240 / 255.0, G: 240 / 255.0, B: 240 / 255.0}
	placeholder = colorful.Color{R: 220 / 255.0, G: 220 / 255.0, B: 220 / 255.0}
)

// FeatureColor returns the stroke colour for the feature at index i.
func FeatureColor(i int) colorful.Color {
	n := len(palette)
	return palette[((i%n)+n)%n]
}

// DraftColor lightens c halfway to white for shapes still being drawn.
func DraftColor(c colorful.Color) colorful.Color {
	return c.BlendLab(white, 0.5).Clamped()
}
