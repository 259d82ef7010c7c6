// Package viewport maps between canvas (screen) coordinates and image space.
//
// Image space is centred on the image: the origin is the image centre and one
// unit is one source pixel. The render transform is
//
//	screen = (viewport/2 + offset) + scale * image
//
// and ScreenToImage is its inverse. Every pointer position goes through
// ScreenToImage before it reaches the annotation store or picking.
package viewport

import (
	"math"

	"github.com/inamate/annotator/internal/config"
	"github.com/inamate/annotator/internal/geom"
)

// DefaultFitMargin leaves a 10% border around a fitted image.
const DefaultFitMargin = 0.9

// FitScale returns the scale that fits an imageW x imageH image inside a
// viewportW x viewportH viewport with DefaultFitMargin.
func FitScale(viewportW, viewportH, imageW, imageH float64) float64 {
	return fitScale(viewportW, viewportH, imageW, imageH, DefaultFitMargin)
}

func fitScale(vw, vh, iw, ih, margin float64) float64 {
	if iw <= 0 || ih <= 0 || vw <= 0 || vh <= 0 {
		return margin
	}
	return margin * math.Min(vw/iw, vh/ih)
}

// Viewport holds pan/zoom state. The zero value is not usable; call New.
type Viewport struct {
	width, height float64 // viewport, in device pixels
	imageW        float64
	imageH        float64
	hasImage      bool

	baseScale float64
	scale     float64
	offX      float64
	offY      float64
	margin    float64

	// Changed, if set, runs after every pan or zoom.
	Changed func()
}

func New(cfg *config.Config) *Viewport {
	margin := cfg.FitMargin
	if margin <= 0 {
		margin = DefaultFitMargin
	}
	v := &Viewport{margin: margin}
	v.Reset(float64(cfg.Width), float64(cfg.Height))
	return v
}

// Reset resizes the viewport, refits the bound image and clears pan and zoom.
// Without a bound image the image is taken to be the viewport itself.
func (v *Viewport) Reset(width, height float64) {
	v.width = width
	v.height = height
	if !v.hasImage {
		v.imageW = width
		v.imageH = height
	}

	v.offX, v.offY = 0, 0
	v.refit()
}

func (v *Viewport) refit() {
	v.baseScale = fitScale(v.width, v.height, v.imageW, v.imageH, v.margin)
	v.scale = v.baseScale
}

// BindImage sets the image dimensions and fits it. Pan is kept but re-clamped.
func (v *Viewport) BindImage(width, height int) {
	if width <= 0 || height <= 0 {
		v.UnbindImage()
		return
	}
	v.imageW = float64(width)
	v.imageH = float64(height)
	v.hasImage = true
	v.refit()
	v.Pan(0, 0)
}

// UnbindImage forgets the image; the viewport size stands in for it.
func (v *Viewport) UnbindImage() {
	v.hasImage = false
	v.imageW = v.width
	v.imageH = v.height
	v.refit()
	v.Pan(0, 0)
}

func (v *Viewport) HasImage() bool { return v.hasImage }

// Zoom multiplies the scale by factor. The scale never drops below the fitted
// scale. Non-positive factors are ignored.
func (v *Viewport) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	v.scale = math.Max(v.scale*factor, v.baseScale)
	// The pan limits depend on scale.
	v.Pan(0, 0)
}

// Pan shifts the image by (dx, dy) device pixels. The offset on each axis is
// kept within half the scaled image size of the centre.
func (v *Viewport) Pan(dx, dy float64) {
	xLim := v.imageW / 2 * v.scale
	yLim := v.imageH / 2 * v.scale
	v.offX = clamp(v.offX+dx, -xLim, xLim)
	v.offY = clamp(v.offY+dy, -yLim, yLim)

	if v.Changed != nil {
		v.Changed()
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// ScreenToImage converts a canvas position to image space.
func (v *Viewport) ScreenToImage(s geom.Point) geom.Point {
	return v.Matrix().Invert().Apply(s)
}

// ImageToScreen converts an image-space position to the canvas.
func (v *Viewport) ImageToScreen(p geom.Point) geom.Point {
	return v.Matrix().Apply(p)
}

// Matrix returns the image-to-screen transform.
func (v *Viewport) Matrix() Matrix2D {
	return Translate(v.width/2+v.offX, v.height/2+v.offY).Multiply(Scale(v.scale, v.scale))
}

func (v *Viewport) Scale() float64 { return v.scale }

func (v *Viewport) BaseScale() float64 { return v.baseScale }

// Offset returns the pan offset in device pixels.
func (v *Viewport) Offset() (x, y float64) { return v.offX, v.offY }

func (v *Viewport) Size() geom.Size { return geom.Size{Width: v.width, Height: v.height} }

// ImageSize returns the dimensions of the bound image, or of the viewport
// when no image is bound.
func (v *Viewport) ImageSize() geom.Size { return geom.Size{Width: v.imageW, Height: v.imageH} }

// ImageBounds is the image rectangle in image space.
func (v *Viewport) ImageBounds() geom.Bounds {
	return geom.Bounds{X0: -v.imageW / 2, Y0: -v.imageH / 2, X1: v.imageW / 2, Y1: v.imageH / 2}
}
