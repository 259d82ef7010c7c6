package viewport

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/inamate/annotator/internal/config"
	"github.com/inamate/annotator/internal/geom"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func approxPt(a, b geom.Point) bool { return approx(a.X, b.X) && approx(a.Y, b.Y) }

func TestFitScale(t *testing.T) {
	tests := []struct {
		name           string
		vw, vh, iw, ih float64
		want           float64
	}{
		{"wide image", 640, 480, 1000, 500, 0.576},
		{"same size", 640, 480, 640, 480, 0.9},
		{"small image", 640, 480, 64, 48, 9},
		{"tall image", 640, 480, 100, 960, 0.45},
		{"zero image", 640, 480, 0, 0, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitScale(tt.vw, tt.vh, tt.iw, tt.ih); !approx(got, tt.want) {
				t.Errorf("FitScale = %v, want %v", got, tt.want)
			}
		})
	}
}

func newBound(t *testing.T) *Viewport {
	t.Helper()
	v := New(config.Default())
	v.BindImage(1000, 500)
	v.Reset(640, 480)
	return v
}

func TestResetFitsBoundImage(t *testing.T) {
	v := newBound(t)
	if !approx(v.BaseScale(), 0.576) || !approx(v.Scale(), 0.576) {
		t.Fatalf("base %v scale %v, want 0.576", v.BaseScale(), v.Scale())
	}
	if x, y := v.Offset(); x != 0 || y != 0 {
		t.Errorf("offset not cleared: %v,%v", x, y)
	}
}

func TestResetWithoutImageUsesViewport(t *testing.T) {
	v := New(config.Default())
	v.Reset(800, 600)
	if got := v.ImageSize(); got != (geom.Size{Width: 800, Height: 600}) {
		t.Errorf("image size: %+v", got)
	}
	if !approx(v.Scale(), 0.9) {
		t.Errorf("scale: %v", v.Scale())
	}
}

func TestZoomClampsToBaseScale(t *testing.T) {
	v := newBound(t)

	v.Zoom(0.5)
	if !approx(v.Scale(), 0.576) {
		t.Fatalf("zoom out past fit: scale %v", v.Scale())
	}

	v.Zoom(1.25)
	v.Zoom(1.25)
	if !approx(v.Scale(), 0.9) {
		t.Fatalf("zoom in: scale %v, want 0.9", v.Scale())
	}

	v.Zoom(0.8)
	if !approx(v.Scale(), 0.72) {
		t.Fatalf("zoom out: scale %v, want 0.72", v.Scale())
	}

	for _, f := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		v.Zoom(f)
	}
	if !approx(v.Scale(), 0.72) {
		t.Errorf("bad factors changed the scale: %v", v.Scale())
	}
}

func TestPanClamps(t *testing.T) {
	v := newBound(t)

	v.Pan(1000, -1000)
	x, y := v.Offset()
	if !approx(x, 288) || !approx(y, -144) {
		t.Fatalf("offset %v,%v, want 288,-144", x, y)
	}

	v.Pan(-300, 100)
	x, y = v.Offset()
	if !approx(x, -12) || !approx(y, -44) {
		t.Fatalf("offset %v,%v, want -12,-44", x, y)
	}
}

func TestZoomOutReclampsPan(t *testing.T) {
	v := newBound(t)
	v.Zoom(2)
	v.Pan(500, 0)
	if x, _ := v.Offset(); !approx(x, 500) {
		t.Fatalf("offset %v, want 500", x)
	}

	v.Zoom(0.5)
	if x, _ := v.Offset(); !approx(x, 288) {
		t.Errorf("offset %v after zoom out, want 288", x)
	}
}

func TestScreenImageRoundTrip(t *testing.T) {
	v := newBound(t)
	v.Zoom(1.7)
	v.Pan(33, -12)

	centre := v.ImageToScreen(geom.Pt(0, 0))
	if !approxPt(centre, geom.Pt(320+33, 240-12)) {
		t.Errorf("image centre maps to %+v", centre)
	}
	if p := v.ScreenToImage(geom.Pt(320+33+v.Scale()*10, 240-12-v.Scale()*4)); !approxPt(p, geom.Pt(10, -4)) {
		t.Errorf("screen to image: got %+v, want (10,-4)", p)
	}

	m := v.Matrix()
	for _, s := range []geom.Point{{}, {X: 640, Y: 480}, {X: 17.5, Y: 301}} {
		p := v.ScreenToImage(s)
		if back := v.ImageToScreen(p); !approxPt(back, s) {
			t.Errorf("%+v -> %+v -> %+v", s, p, back)
		}
		if back := m.Apply(p); !approxPt(back, s) {
			t.Errorf("matrix: %+v -> %+v", p, back)
		}
		if inv := m.Invert().Apply(s); !approxPt(inv, p) {
			t.Errorf("inverse matrix: %+v -> %+v, want %+v", s, inv, p)
		}
	}
}

func TestChangedHook(t *testing.T) {
	v := newBound(t)
	calls := 0
	v.Changed = func() { calls++ }

	v.Pan(1, 1)
	v.Zoom(1.25)
	if calls != 2 {
		t.Errorf("Changed called %d times, want 2", calls)
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	m := Translate(10, 20).Multiply(Scale(2, 3))
	if got := m.Apply(geom.Pt(1, 1)); got != geom.Pt(12, 23) {
		t.Errorf("got %+v, want (12,23)", got)
	}
	if got := Scale(0, 0).Invert(); got != Identity() {
		t.Errorf("singular inverse: %v", got)
	}
	if s := m.ToSlice(); len(s) != 6 || s[0] != 2 || s[3] != 3 || s[4] != 10 || s[5] != 20 {
		t.Errorf("ToSlice: %v", s)
	}
}

func TestBindImageData(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 7, 3))

	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, img); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", pngBuf.Bytes(), "png"},
		{"bmp", bmpBuf.Bytes(), "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(config.Default())
			info, err := v.BindImageData(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatal(err)
			}
			if info.Format != tt.format || info.Width != 7 || info.Height != 3 {
				t.Errorf("info: %+v", info)
			}
			if !v.HasImage() || v.ImageSize() != (geom.Size{Width: 7, Height: 3}) {
				t.Errorf("image not bound: %+v", v.ImageSize())
			}
			if !approx(v.Scale(), 0.9*640.0/7) {
				t.Errorf("scale %v", v.Scale())
			}
		})
	}
}

func TestBindImageDataRejectsGarbage(t *testing.T) {
	v := New(config.Default())
	v.BindImage(10, 10)

	_, err := v.BindImageData(strings.NewReader("not an image"))
	if !errors.Is(err, image.ErrFormat) {
		t.Fatalf("err = %v, want image.ErrFormat", err)
	}
	if v.ImageSize() != (geom.Size{Width: 10, Height: 10}) {
		t.Error("failed bind changed the image")
	}
}

func TestUnbindImage(t *testing.T) {
	v := newBound(t)
	v.UnbindImage()
	if v.HasImage() || v.ImageSize() != (geom.Size{Width: 640, Height: 480}) {
		t.Errorf("unbind: %+v", v.ImageSize())
	}
	if got := v.ImageBounds(); got != (geom.Bounds{X0: -320, Y0: -240, X1: 320, Y1: 240}) {
		t.Errorf("bounds: %+v", got)
	}
}
