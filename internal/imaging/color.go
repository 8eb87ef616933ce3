package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled pixel in the representations a color picker
// displays.
//
//   - Hex: "#rrggbb", lowercase, alpha excluded
//   - Decimal: "r;g;b", alpha excluded
//   - RGB: 8-bit components without alpha
//   - RGBA: the raw Pixel including alpha
//   - HSL: perceptual representation for display
type ColorResult struct {
	Hex     string   `json:"hex"`
	Decimal string   `json:"decimal"`
	RGB     RGBColor `json:"rgb"`
	RGBA    Pixel    `json:"rgba"`
	HSL     HSLColor `json:"hsl"`
}

// NewColorResult expands a Pixel into every display representation.
func NewColorResult(p Pixel) *ColorResult {
	return &ColorResult{
		Hex:     p.Hex(),
		Decimal: p.DecimalTriple(),
		RGB:     RGBColor{R: p.R, G: p.G, B: p.B},
		RGBA:    p,
		HSL:     pixelToHSL(p),
	}
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: An *OutOfBoundsError if coordinates are outside the image, or
//     ErrEmptyImage for a nil/zero-sized image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	p, err := Sample(img, x, y)
	if err != nil {
		return nil, err
	}
	return NewColorResult(p), nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"` // Optional label (empty if not provided)
	X     int         `json:"x"`               // X coordinate that was sampled
	Y     int         `json:"y"`               // Y coordinate that was sampled
	Color ColorResult `json:"color"`           // The color at this location
}

// MultiColorResult contains color samples from multiple points.
//
// Results are returned in the same order as the input points.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti extracts colors at multiple pixel coordinates in a single call.
//
// If any coordinate is outside the image, the whole call fails and no partial
// results are returned.
//
// # Example
//
//	points := []imaging.LabeledPoint{
//	    {X: 10, Y: 20, Label: "sky"},
//	    {X: 50, Y: 100, Label: "grass"},
//	}
//	result, err := imaging.SampleColorsMulti(img, points)
func SampleColorsMulti(img image.Image, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		color, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *color,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

// Region represents a rectangular region within an image.
//
// (X1, Y1) is inclusive, (X2, Y2) is exclusive; coordinates are 0-based
// offsets like those accepted by Sample.
type Region struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#rrggbb" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of pixels with this color (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// DominantColorsResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type DominantColorsResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// DominantColors extracts the N most common colors from an image or region.
//
// Colors are quantized by dropping the low four bits of each channel, so
// channels within the same 16-wide bucket are counted together. Ties are
// broken by hex string so the output is deterministic.
//
// A nil region analyzes the whole image. A region that is empty or not fully
// inside the image is rejected.
func DominantColors(img image.Image, count int, region *Region) (*DominantColorsResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	b := img.Bounds()
	r := Region{X1: 0, Y1: 0, X2: b.Dx(), Y2: b.Dy()}
	if region != nil {
		r = *region
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		if r.X1 < 0 || r.Y1 < 0 || r.X2 > b.Dx() || r.Y2 > b.Dy() {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d): %w", r.X1, r.Y1, r.X2, r.Y2, ErrOutOfBounds)
		}
	}

	counts := make(map[Pixel]int)
	total := 0
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			p, err := Sample(img, x, y)
			if err != nil {
				return nil, err
			}
			counts[Pixel{R: p.R &^ 0x0f, G: p.G &^ 0x0f, B: p.B &^ 0x0f, A: 0xff}]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for p, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        p.Hex(),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        RGBColor{R: p.R, G: p.G, B: p.B},
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}

	return &DominantColorsResult{Colors: colors}, nil
}

// pixelToHSL converts the RGB channels of p to HSL, ignoring alpha.
func pixelToHSL(p Pixel) HSLColor {
	c := colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}
	h, s, l := c.Hsl()
	hue := int(math.Round(h)) % 360
	return HSLColor{
		H: hue,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}
