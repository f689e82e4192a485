// Package texture loads colour ramp images for the fog feature.
package texture

import (
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders for ramp files.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
)

// MaxRampWidth caps the width of a loaded ramp. Wider images are resampled.
const MaxRampWidth = 1024

// LoadRamp reads a ramp image from disk and reduces it to a 1-pixel strip.
func LoadRamp(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ramp, err := DecodeRamp(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ramp, nil
}

// DecodeRamp decodes a png, jpeg, bmp or tiff ramp.
func DecodeRamp(r io.Reader) (*image.NRGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding ramp: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty %s ramp", format)
	}
	return Strip(img), nil
}

// Strip returns the middle row of img as a zero-origin Nx1 image. The fog
// shader samples ramps horizontally, so the other rows are dropped.
func Strip(img image.Image) *image.NRGBA {
	b := img.Bounds()
	mid := b.Min.Y + b.Dy()/2

	row := image.NewNRGBA(image.Rect(0, 0, b.Dx(), 1))
	draw.Draw(row, row.Bounds(), img, image.Pt(b.Min.X, mid), draw.Src)
	if b.Dx() <= MaxRampWidth {
		return row
	}

	out := image.NewNRGBA(image.Rect(0, 0, MaxRampWidth, 1))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), row, row.Bounds(), draw.Src, nil)
	return out
}

// ResolveRamps loads the ramp of every colour source that names a file and
// has none yet. resolve maps a configured path to a file path; nil uses the
// path as is.
func ResolveRamps(s *fog.Settings, resolve func(string) string) error {
	for _, src := range []*fog.ColorSource{&s.DistanceColor, &s.HeightColor} {
		if src.Ramp != nil || src.RampPath == "" {
			continue
		}
		path := src.RampPath
		if resolve != nil {
			path = resolve(path)
		}
		ramp, err := LoadRamp(path)
		if err != nil {
			return err
		}
		src.Ramp = ramp
	}
	return nil
}
