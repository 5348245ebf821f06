package preprocess

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

const DefaultMaxDimension = 1600

// Preprocessor turns an uploaded raster into a single-channel image whose
// longest side does not exceed MaxDimension.
type Preprocessor struct {
	MaxDimension int
}

func New(maxDimension int) *Preprocessor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Preprocessor{MaxDimension: maxDimension}
}

func (p *Preprocessor) Preprocess(r io.Reader) (*image.Gray, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return p.Normalize(src), nil
}

// Normalize converts to grayscale and downsizes with Lanczos resampling.
func (p *Preprocessor) Normalize(src image.Image) *image.Gray {
	gray := imaging.Grayscale(src)

	w, h := TargetSize(gray.Bounds().Dx(), gray.Bounds().Dy(), p.MaxDimension)
	var scaled image.Image = gray
	if w != gray.Bounds().Dx() || h != gray.Bounds().Dy() {
		scaled = imaging.Resize(gray, w, h, imaging.Lanczos)
	}

	bounds := scaled.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(out, out.Bounds(), scaled, bounds.Min, xdraw.Src)
	return out
}

// TargetSize scales (w, h) so that the longer side equals maxDim, keeping the
// aspect ratio. Images already within bounds are returned unchanged.
func TargetSize(w, h, maxDim int) (int, int) {
	longest := max(w, h)
	if maxDim <= 0 || longest <= maxDim {
		return w, h
	}
	scale := float64(maxDim) / float64(longest)
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))
	return nw, nh
}
