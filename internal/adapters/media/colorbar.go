package media

import "github.com/bnema/coverscreen/internal/domain"

type rgb struct{ r, g, b byte }

// SMPTE ECR 1-1978 rows: seven 75% bars, the reversed castellation strip, then the
// -I / white / +Q / PLUGE band.
var (
	topBars = []rgb{
		{192, 192, 192},
		{192, 192, 0},
		{0, 192, 192},
		{0, 192, 0},
		{192, 0, 192},
		{192, 0, 0},
		{0, 0, 192},
	}
	castellationBars = []rgb{
		{0, 0, 255},
		{0, 0, 0},
		{255, 0, 255},
		{0, 0, 0},
		{0, 255, 255},
		{0, 0, 0},
		{192, 192, 192},
	}
	bottomBlocks = []rgb{
		{0, 33, 76},
		{192, 192, 192},
		{50, 0, 106},
		{0, 0, 0},
	}
	plugeLevels = []rgb{{9, 9, 9}, {19, 19, 19}, {29, 29, 29}}
)

// ColorBar draws the SMPTE color bar test card as a packed RGB888 frame.
func ColorBar(width, height int) domain.Frame {
	if width <= 0 || height <= 0 {
		return domain.Frame{Width: width, Height: height, Format: domain.PixelFormatRGB888}
	}

	data := make([]byte, width*height*3)
	topHeight := height * 2 / 3
	midHeight := height / 12

	for y := 0; y < height; y++ {
		row := data[y*width*3 : (y+1)*width*3]
		for x := 0; x < width; x++ {
			var c rgb
			switch {
			case y < topHeight:
				c = barAt(topBars, x, width)
			case y < topHeight+midHeight:
				c = barAt(castellationBars, x, width)
			default:
				c = bottomAt(x, width)
			}
			row[x*3], row[x*3+1], row[x*3+2] = c.r, c.g, c.b
		}
	}

	return domain.Frame{Data: data, Width: width, Height: height, Format: domain.PixelFormatRGB888}
}

// barAt splits the row into equal bars; the last bar absorbs the remainder.
func barAt(bars []rgb, x, width int) rgb {
	barWidth := width / len(bars)
	if barWidth == 0 {
		return bars[len(bars)-1]
	}
	return bars[min(x/barWidth, len(bars)-1)]
}

func bottomAt(x, width int) rgb {
	blockWidth := width / 6
	if blockWidth == 0 {
		return rgb{}
	}
	block := x / blockWidth
	if block < len(bottomBlocks) {
		return bottomBlocks[block]
	}

	third := blockWidth / 3
	rel := x % blockWidth
	switch {
	case rel < third:
		return plugeLevels[0]
	case rel < 2*third:
		return plugeLevels[1]
	default:
		return plugeLevels[2]
	}
}
