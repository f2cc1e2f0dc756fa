// Package mask turns client-supplied mask images into luminance buffers
// ready for occupancy-grid building.
package mask

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/tablenav/tablenav/internal/nav"
)

var (
	// ErrNoData reports an empty mask payload.
	ErrNoData = errors.New("mask: no data")
	// ErrBadImage reports a payload that is not a decodable image.
	ErrBadImage = errors.New("mask: bad image")
	// ErrOversized reports a payload larger than the caller's limit.
	ErrOversized = errors.New("mask: payload too large")
)

// maxPixels caps decoded dimensions; camera masks are far smaller, and a
// tiny compressed payload must not expand into gigabytes of cells.
const maxPixels = 1 << 24

// Image is decoded 8-bit luminance in row-major order (y*Width+x).
type Image struct {
	Width  int
	Height int
	Pixels []byte
}

// Decode parses PNG or JPEG bytes into a luminance buffer.
func Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: implausible dimensions %dx%d", ErrBadImage, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	return fromImage(img), nil
}

// DecodeBounded rejects payloads larger than limit bytes before decoding.
// A non-positive limit disables the check.
func DecodeBounded(data []byte, limit int) (*Image, error) {
	if limit > 0 && len(data) > limit {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrOversized, len(data), limit)
	}
	return Decode(data)
}

func fromImage(img image.Image) *Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := &Image{
		Width:  w,
		Height: h,
		Pixels: make([]byte, w*h),
	}

	if gray, ok := img.(*image.Gray); ok {
		for y := range h {
			row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
			copy(out.Pixels[y*w:], row)
		}
		return out
	}

	for y := range h {
		for x := range w {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			out.Pixels[y*w+x] = color.GrayModel.Convert(c).(color.Gray).Y
		}
	}
	return out
}

// BlockedRatio is the fraction of pixels the grid builder will treat as
// obstacles. Segmentations outside a sane band usually mean the upstream
// model misfired; callers log and proceed.
func (m *Image) BlockedRatio() float64 {
	if len(m.Pixels) == 0 {
		return 0
	}
	blocked := 0
	for _, p := range m.Pixels {
		if p < nav.OccupancyThreshold {
			blocked++
		}
	}
	return float64(blocked) / float64(len(m.Pixels))
}

// Grid builds the occupancy grid for this mask.
func (m *Image) Grid() (*nav.Grid, error) {
	return nav.NewGrid(m.Width, m.Height, m.Pixels)
}
