package pixel

import (
	"fmt"

	"github.com/bnema/coverscreen/internal/domain"
)

type conversion struct {
	from domain.PixelFormat
	to   domain.PixelFormat
}

// Converter holds the registered conversions and a scratch buffer that is reused
// across frames. The slice returned by Convert aliases that buffer and stays valid
// only until the next call. A Converter is not safe for concurrent use.
type Converter struct {
	table   map[conversion]RowFunc
	scratch []byte
}

func NewConverter() *Converter {
	c := &Converter{table: make(map[conversion]RowFunc)}
	c.Register(domain.PixelFormatRGB565, domain.PixelFormatRGBA8888, rgb565ToRGBA8888)
	c.Register(domain.PixelFormatRGB565, domain.PixelFormatRGB888, rgb565ToRGB888)
	c.Register(domain.PixelFormatRGB888, domain.PixelFormatRGBA8888, rgb888ToRGBA8888)
	c.Register(domain.PixelFormatRGBA8888, domain.PixelFormatRGB888, rgba8888ToRGB888)
	c.Register(domain.PixelFormatRGB888, domain.PixelFormatRGB565, rgb888ToRGB565)
	c.Register(domain.PixelFormatRGBA8888, domain.PixelFormatRGB565, rgba8888ToRGB565)
	return c
}

// Register adds or replaces the row conversion from one format to another.
func (c *Converter) Register(from, to domain.PixelFormat, fn RowFunc) {
	c.table[conversion{from: from, to: to}] = fn
}

func (c *Converter) Supports(from, to domain.PixelFormat) bool {
	if from == to {
		return from.Valid()
	}
	_, ok := c.table[conversion{from: from, to: to}]
	return ok
}

// Reserve grows the scratch buffer to at least size bytes.
func (c *Converter) Reserve(size int) {
	if cap(c.scratch) < size {
		c.scratch = make([]byte, size)
	}
}

func (c *Converter) ScratchSize() int {
	return cap(c.scratch)
}

// Convert returns frame's pixels in the target layout, tightly packed. A packed
// frame already in the target layout is returned as is without copying.
func (c *Converter) Convert(frame domain.Frame, target domain.PixelFormat) ([]byte, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %s to %q", domain.ErrUnsupportedConversion, frame.Format, target)
	}

	srcRow := frame.RowBytes()
	srcStride := frame.EffectiveStride()

	if frame.Format == target {
		if frame.Packed() {
			return frame.Data[:srcRow*frame.Height], nil
		}

		out := c.buffer(srcRow * frame.Height)
		for y := 0; y < frame.Height; y++ {
			copy(out[y*srcRow:(y+1)*srcRow], frame.Data[y*srcStride:y*srcStride+srcRow])
		}
		return out, nil
	}

	fn, ok := c.table[conversion{from: frame.Format, to: target}]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, frame.Format, target)
	}

	dstRow := frame.Width * target.BytesPerPixel()
	out := c.buffer(dstRow * frame.Height)
	for y := 0; y < frame.Height; y++ {
		fn(out[y*dstRow:(y+1)*dstRow], frame.Data[y*srcStride:y*srcStride+srcRow], frame.Width)
	}

	return out, nil
}

func (c *Converter) buffer(size int) []byte {
	c.Reserve(size)
	return c.scratch[:size]
}

// Convert is the allocating form of Converter.Convert for callers that do not
// share a scratch buffer.
func Convert(src []byte, width, height int, from, to domain.PixelFormat) ([]byte, error) {
	out, err := NewConverter().Convert(domain.Frame{Data: src, Width: width, Height: height, Format: from}, to)
	if err != nil {
		return nil, err
	}
	return out, nil
}
