package viewport

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image has no pixels")

// ImageInfo describes an encoded image without its pixels.
type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ReadImageInfo reads the format and dimensions from the image header in r.
// Only the header is decoded.
func ReadImageInfo(r io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, ErrEmptyImage
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// BindImageData binds the image encoded in r. On error the current binding
// is left untouched.
func (v *Viewport) BindImageData(r io.Reader) (ImageInfo, error) {
	info, err := ReadImageInfo(r)
	if err != nil {
		return ImageInfo{}, err
	}

	slog.Debug("bound image", "format", info.Format, "width", info.Width, "height", info.Height)
	v.BindImage(info.Width, info.Height)
	return info, nil
}
