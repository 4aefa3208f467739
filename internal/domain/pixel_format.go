package domain

import (
	"fmt"
	"strings"
)

type PixelFormat string

const (
	PixelFormatUnknown  PixelFormat = ""
	PixelFormatRGB565   PixelFormat = "rgb565"
	PixelFormatRGB888   PixelFormat = "rgb888"
	PixelFormatRGBA8888 PixelFormat = "rgba8888"
)

func (f PixelFormat) Valid() bool {
	switch f {
	case PixelFormatRGB565, PixelFormatRGB888, PixelFormatRGBA8888:
		return true
	default:
		return false
	}
}

func (f PixelFormat) BytesPerPixel() int {
	return f.Depth() / 8
}

func (f PixelFormat) Depth() int {
	switch f {
	case PixelFormatRGB565:
		return 16
	case PixelFormatRGB888:
		return 24
	case PixelFormatRGBA8888:
		return 32
	default:
		return 0
	}
}

// FormatForDepth maps a screen's bits per pixel to the pixel layout screens use for that depth.
func FormatForDepth(depth int) PixelFormat {
	switch depth {
	case 16:
		return PixelFormatRGB565
	case 24:
		return PixelFormatRGB888
	case 32:
		return PixelFormatRGBA8888
	default:
		return PixelFormatUnknown
	}
}

func ParsePixelFormat(raw string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "rgb565", "16":
		return PixelFormatRGB565, nil
	case "rgb888", "rgb24", "24":
		return PixelFormatRGB888, nil
	case "rgba8888", "rgba", "32":
		return PixelFormatRGBA8888, nil
	default:
		return PixelFormatUnknown, fmt.Errorf("unsupported pixel format %q", raw)
	}
}

// Frame is a borrowed pixel buffer. Stride is the number of bytes per row; zero means
// rows are tightly packed.
type Frame struct {
	Data   []byte
	Width  int
	Height int
	Stride int
	Format PixelFormat
}

func (f Frame) RowBytes() int {
	return f.Width * f.Format.BytesPerPixel()
}

func (f Frame) EffectiveStride() int {
	if f.Stride == 0 {
		return f.RowBytes()
	}
	return f.Stride
}

func (f Frame) Packed() bool {
	return f.EffectiveStride() == f.RowBytes()
}

func (f Frame) Validate() error {
	if !f.Format.Valid() {
		return fmt.Errorf("%w: unsupported pixel format %q", ErrFrameGeometry, f.Format)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d must be positive", ErrFrameGeometry, f.Width, f.Height)
	}
	if f.Stride < 0 || f.EffectiveStride() < f.RowBytes() {
		return fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrFrameGeometry, f.Stride, f.RowBytes())
	}
	need := f.EffectiveStride()*(f.Height-1) + f.RowBytes()
	if len(f.Data) < need {
		return fmt.Errorf("%w: buffer has %d bytes, need %d", ErrFrameGeometry, len(f.Data), need)
	}

	return nil
}
