package pixel

import (
	"testing"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le16(values ...uint16) []byte {
	out := make([]byte, 0, 2*len(values))
	for _, v := range values {
		out = append(out, byte(v), byte(v>>8))
	}
	return out
}

func TestRGB565ToRGBA8888ReplicatesHighBits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pixel uint16
		want  []byte
	}{
		{name: "pure red", pixel: 0xF800, want: []byte{0xFF, 0x00, 0x00, 0xFF}},
		{name: "pure green", pixel: 0x07E0, want: []byte{0x00, 0xFF, 0x00, 0xFF}},
		{name: "pure blue", pixel: 0x001F, want: []byte{0x00, 0x00, 0xFF, 0xFF}},
		{name: "white", pixel: 0xFFFF, want: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "black keeps full alpha", pixel: 0x0000, want: []byte{0x00, 0x00, 0x00, 0xFF}},
		// g6=62 widens to 251, a plain shift would give 248.
		{name: "mid green", pixel: 62 << 5, want: []byte{0x00, 251, 0x00, 0xFF}},
		// r5=16 widens to 132, a plain shift would give 128.
		{name: "mid red", pixel: 16 << 11, want: []byte{132, 0x00, 0x00, 0xFF}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Convert(le16(tc.pixel), 1, 1, domain.PixelFormatRGB565, domain.PixelFormatRGBA8888)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConvertRoundTripThroughRGB565(t *testing.T) {
	t.Parallel()

	src := le16(0xF800, 0x07E0, 0x001F, 0x1234)
	wide, err := Convert(src, 2, 2, domain.PixelFormatRGB565, domain.PixelFormatRGB888)
	require.NoError(t, err)
	require.Len(t, wide, 12)

	back, err := Convert(wide, 2, 2, domain.PixelFormatRGB888, domain.PixelFormatRGB565)
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestConvertAddsAndDropsAlpha(t *testing.T) {
	t.Parallel()

	rgba, err := Convert([]byte{1, 2, 3, 4, 5, 6}, 2, 1, domain.PixelFormatRGB888, domain.PixelFormatRGBA8888)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 0xFF, 4, 5, 6, 0xFF}, rgba)

	rgb, err := Convert([]byte{1, 2, 3, 9, 4, 5, 6, 9}, 2, 1, domain.PixelFormatRGBA8888, domain.PixelFormatRGB888)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, rgb)

	packed, err := Convert([]byte{0xFF, 0x00, 0x00, 0x10}, 1, 1, domain.PixelFormatRGBA8888, domain.PixelFormatRGB565)
	require.NoError(t, err)
	assert.Equal(t, le16(0xF800), packed)
}

func TestConverterSameFormatIsPassthrough(t *testing.T) {
	t.Parallel()

	converter := NewConverter()
	src := le16(0x1111, 0x2222, 0x3333, 0x4444)

	out, err := converter.Convert(domain.Frame{Data: src, Width: 2, Height: 2, Format: domain.PixelFormatRGB565}, domain.PixelFormatRGB565)
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Same(t, &src[0], &out[0])
	assert.Zero(t, converter.ScratchSize())
}

func TestConverterRepacksPaddedStride(t *testing.T) {
	t.Parallel()

	converter := NewConverter()
	// Two RGB565 pixels per row, two bytes of padding per row.
	src := []byte{
		0x00, 0xF8, 0xE0, 0x07, 0xAA, 0xAA,
		0x1F, 0x00, 0xFF, 0xFF, 0xAA, 0xAA,
	}
	frame := domain.Frame{Data: src, Width: 2, Height: 2, Stride: 6, Format: domain.PixelFormatRGB565}

	same, err := converter.Convert(frame, domain.PixelFormatRGB565)
	require.NoError(t, err)
	assert.Equal(t, le16(0xF800, 0x07E0, 0x001F, 0xFFFF), same)

	wide, err := converter.Convert(frame, domain.PixelFormatRGBA8888)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF,
		0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}, wide)
}

func TestConverterReusesScratchBuffer(t *testing.T) {
	t.Parallel()

	converter := NewConverter()
	converter.Reserve(64)

	first, err := converter.Convert(domain.Frame{Data: le16(0xF800), Width: 1, Height: 1, Format: domain.PixelFormatRGB565}, domain.PixelFormatRGBA8888)
	require.NoError(t, err)
	second, err := converter.Convert(domain.Frame{Data: le16(0x001F), Width: 1, Height: 1, Format: domain.PixelFormatRGB565}, domain.PixelFormatRGBA8888)
	require.NoError(t, err)

	assert.Same(t, &first[0], &second[0])
	assert.Equal(t, 64, converter.ScratchSize())
}

func TestConverterRejectsUnsupportedAndShortFrames(t *testing.T) {
	t.Parallel()

	converter := NewConverter()

	_, err := converter.Convert(domain.Frame{Data: make([]byte, 4), Width: 1, Height: 1, Format: domain.PixelFormatRGBA8888}, domain.PixelFormatUnknown)
	assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)

	_, err = converter.Convert(domain.Frame{Data: make([]byte, 3), Width: 2, Height: 1, Format: domain.PixelFormatRGB565}, domain.PixelFormatRGBA8888)
	assert.ErrorIs(t, err, domain.ErrFrameGeometry)
}

func TestConverterRegisterReplacesConversion(t *testing.T) {
	t.Parallel()

	converter := NewConverter()
	assert.True(t, converter.Supports(domain.PixelFormatRGB565, domain.PixelFormatRGBA8888))
	assert.False(t, converter.Supports(domain.PixelFormatRGB565, domain.PixelFormatUnknown))

	converter.Register(domain.PixelFormatRGB565, domain.PixelFormatRGBA8888, func(dst, src []byte, n int) {
		for i := range dst {
			dst[i] = 0x42
		}
	})

	out, err := converter.Convert(domain.Frame{Data: le16(0xF800), Width: 1, Height: 1, Format: domain.PixelFormatRGB565}, domain.PixelFormatRGBA8888)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42, 0x42, 0x42, 0x42}, out)
}
