package media

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"time"

	"github.com/bnema/coverscreen/internal/domain"
)

const defaultFrameDelay = 100 * time.Millisecond

type AnimationFrame struct {
	Frame domain.Frame
	Delay time.Duration
}

// Animation holds fully composed frames. LoopCount follows image/gif: 0 loops
// forever, -1 plays once, n plays n+1 times.
type Animation struct {
	Frames    []AnimationFrame
	LoopCount int
}

// Plays is the number of times the animation asks to be shown, 0 for forever.
func (a Animation) Plays() int {
	switch {
	case a.LoopCount < 0:
		return 1
	case a.LoopCount == 0:
		return 0
	default:
		return a.LoopCount + 1
	}
}

func LoadGIF(path string, width, height int, mode ResizeMode) (Animation, error) {
	file, err := os.Open(path)
	if err != nil {
		return Animation{}, fmt.Errorf("open gif: %w", err)
	}
	defer func() { _ = file.Close() }()

	decoded, err := gif.DecodeAll(file)
	if err != nil {
		return Animation{}, fmt.Errorf("decode gif %s: %w", path, err)
	}

	return ComposeGIF(decoded, width, height, mode)
}

// ComposeGIF applies each frame's disposal method over a shared canvas and scales
// every composed canvas to the target size.
func ComposeGIF(g *gif.GIF, width, height int, mode ResizeMode) (Animation, error) {
	if len(g.Image) == 0 {
		return Animation{}, fmt.Errorf("%w: gif has no frames", domain.ErrFrameGeometry)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	animation := Animation{Frames: make([]AnimationFrame, 0, len(g.Image)), LoopCount: g.LoopCount}
	for i, paletted := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var previous []byte
		if disposal == gif.DisposalPrevious {
			previous = append([]byte(nil), canvas.Pix...)
		}

		draw.Draw(canvas, paletted.Bounds(), paletted, paletted.Bounds().Min, draw.Over)

		scaled, err := Resize(canvas, width, height, mode)
		if err != nil {
			return Animation{}, err
		}
		animation.Frames = append(animation.Frames, AnimationFrame{
			Frame: FrameFromRGBA(scaled),
			Delay: frameDelay(g, i),
		})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, paletted.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, previous)
		}
	}

	return animation, nil
}

func frameDelay(g *gif.GIF, i int) time.Duration {
	if i >= len(g.Delay) || g.Delay[i] <= 0 {
		return defaultFrameDelay
	}
	return time.Duration(g.Delay[i]) * 10 * time.Millisecond
}
