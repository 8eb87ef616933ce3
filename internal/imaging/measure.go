package imaging

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorDifferenceResult measures how far apart two colors are.
type ColorDifferenceResult struct {
	Reference ColorResult `json:"reference"`

	// RGBDistance is the Euclidean distance between the 8-bit RGB triples,
	// 0 to ~441.67.
	RGBDistance float64 `json:"rgb_distance"`

	// DeltaE is the CIEDE2000 difference scaled to the usual 0-100 range.
	// Below about 1 the colors are indistinguishable to the eye.
	DeltaE float64 `json:"delta_e"`

	// Identical is true only when the RGB channels match exactly. Alpha is
	// not compared.
	Identical bool `json:"identical"`
}

// MeasureColorDifference compares p against ref.
func MeasureColorDifference(p, ref Pixel) *ColorDifferenceResult {
	dr := float64(p.R) - float64(ref.R)
	dg := float64(p.G) - float64(ref.G)
	db := float64(p.B) - float64(ref.B)

	de := toColorful(p).DistanceCIEDE2000(toColorful(ref)) * 100

	return &ColorDifferenceResult{
		Reference:   *NewColorResult(ref),
		RGBDistance: math.Round(math.Sqrt(dr*dr+dg*dg+db*db)*100) / 100,
		DeltaE:      math.Round(de*100) / 100,
		Identical:   p.R == ref.R && p.G == ref.G && p.B == ref.B,
	}
}

// ParseHexPixel parses "#rrggbb" (or the short "#rgb" form) into an opaque
// Pixel.
func ParseHexPixel(s string) (Pixel, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Pixel{}, err
	}
	r, g, b := c.RGB255()
	return Pixel{R: r, G: g, B: b, A: 255}, nil
}

func toColorful(p Pixel) colorful.Color {
	return colorful.Color{
		R: float64(p.R) / 255,
		G: float64(p.G) / 255,
		B: float64(p.B) / 255,
	}
}
