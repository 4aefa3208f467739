package media

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strings"

	"github.com/bnema/coverscreen/internal/domain"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type ResizeMode string

const (
	ResizeStretch ResizeMode = "stretch"
	ResizeFit     ResizeMode = "fit"
	ResizeFill    ResizeMode = "fill"
)

func ParseResizeMode(raw string) (ResizeMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "fit", "letterbox":
		return ResizeFit, nil
	case "fill", "crop":
		return ResizeFill, nil
	case "stretch":
		return ResizeStretch, nil
	default:
		return "", fmt.Errorf("unsupported resize mode %q", raw)
	}
}

// LoadImage decodes an image file and scales it onto a width x height RGBA8888
// frame. Letterbox areas and transparent pixels render black.
func LoadImage(path string, width, height int, mode ResizeMode) (domain.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	canvas, err := Resize(img, width, height, mode)
	if err != nil {
		return domain.Frame{}, err
	}
	return FrameFromRGBA(canvas), nil
}

// FrameFromRGBA borrows the pixel buffer of img as an RGBA8888 frame.
func FrameFromRGBA(img *image.RGBA) domain.Frame {
	bounds := img.Bounds()
	return domain.Frame{
		Data:   img.Pix,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Stride: img.Stride,
		Format: domain.PixelFormatRGBA8888,
	}
}

func Resize(src image.Image, width, height int, mode ResizeMode) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target size %dx%d must be positive", domain.ErrFrameGeometry, width, height)
	}
	srcBounds := src.Bounds()
	if srcBounds.Empty() {
		return nil, fmt.Errorf("%w: source image is empty", domain.ErrFrameGeometry)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	if srcBounds.Dx() == width && srcBounds.Dy() == height {
		draw.Draw(dst, dst.Bounds(), src, srcBounds.Min, draw.Over)
		return dst, nil
	}

	switch mode {
	case ResizeStretch:
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcBounds, xdraw.Over, nil)
	case ResizeFit, "":
		xdraw.CatmullRom.Scale(dst, letterboxRect(srcBounds, width, height), src, srcBounds, xdraw.Over, nil)
	case ResizeFill:
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, cropRect(srcBounds, width, height), xdraw.Over, nil)
	default:
		return nil, fmt.Errorf("unsupported resize mode %q", mode)
	}

	return dst, nil
}

// letterboxRect centers the largest rectangle with the source aspect ratio that
// fits inside the target.
func letterboxRect(src image.Rectangle, width, height int) image.Rectangle {
	srcRatio := float64(src.Dx()) / float64(src.Dy())
	dstRatio := float64(width) / float64(height)

	w, h := width, height
	if srcRatio > dstRatio {
		h = max(1, int(math.Round(float64(width)/srcRatio)))
	} else {
		w = max(1, int(math.Round(float64(height)*srcRatio)))
	}

	x0 := (width - w) / 2
	y0 := (height - h) / 2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// cropRect is the centered part of the source that has the target aspect ratio.
func cropRect(src image.Rectangle, width, height int) image.Rectangle {
	srcRatio := float64(src.Dx()) / float64(src.Dy())
	dstRatio := float64(width) / float64(height)

	w, h := src.Dx(), src.Dy()
	if srcRatio > dstRatio {
		w = max(1, int(math.Round(float64(h)*dstRatio)))
	} else {
		h = max(1, int(math.Round(float64(w)/dstRatio)))
	}

	x0 := src.Min.X + (src.Dx()-w)/2
	y0 := src.Min.Y + (src.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}
