package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Loupe limits.
const (
	MaxLoupeRadius = 64
	MaxLoupeZoom   = 32
	MaxSwatchSize  = 512
)

// LoupeResult is a magnified view of the pixels around a sampled point.
type LoupeResult struct {
	EncodedImage

	// Center is the sampled pixel at (X, Y).
	Center ColorResult `json:"center"`

	// Region is the image-space area that was magnified, clamped to the image.
	Region struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region"`

	Zoom int `json:"zoom"`

	// Grid reports whether cell grid lines were drawn.
	Grid bool `json:"grid"`
}

// Loupe crops a (2*radius+1)-wide square around (x, y) and magnifies it with
// nearest-neighbour scaling so every source pixel becomes a zoom x zoom block.
//
// The crop is clamped to the image, so near the edges the result is smaller
// than the full square. (x, y) itself must be inside the image.
//
// With grid set and a zoom of at least 4, cells are separated by grid lines
// and the center cell is outlined.
func Loupe(img image.Image, x, y, radius, zoom int, grid bool) (*LoupeResult, error) {
	center, err := Sample(img, x, y)
	if err != nil {
		return nil, err
	}
	if radius < 0 || radius > MaxLoupeRadius {
		return nil, fmt.Errorf("radius must be between 0 and %d, got %d", MaxLoupeRadius, radius)
	}
	if zoom < 1 || zoom > MaxLoupeZoom {
		return nil, fmt.Errorf("zoom must be between 1 and %d, got %d", MaxLoupeZoom, zoom)
	}

	b := img.Bounds()
	x1, y1 := max(0, x-radius), max(0, y-radius)
	x2, y2 := min(b.Dx(), x+radius+1), min(b.Dy(), y+radius+1)

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2).Add(b.Min))
	if zoom > 1 {
		cropped = imaging.Resize(cropped, cropped.Bounds().Dx()*zoom, cropped.Bounds().Dy()*zoom, imaging.NearestNeighbor)
	}
	grid = grid && zoom >= minGridZoom
	if grid {
		drawPixelGrid(cropped, zoom, gridLineColor)
		outlineCell(cropped, x-x1, y-y1, zoom, markerColor(center))
	}

	enc, err := EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	res := &LoupeResult{
		EncodedImage: *enc,
		Center:       *NewColorResult(center),
		Zoom:         zoom,
		Grid:         grid,
	}
	res.Region.X1, res.Region.Y1, res.Region.X2, res.Region.Y2 = x1, y1, x2, y2
	return res, nil
}

// SwatchResult is a solid square filled with a picked color.
type SwatchResult struct {
	EncodedImage
	Color ColorResult `json:"color"`
}

// Swatch renders a size x size square filled with p, alpha included.
func Swatch(p Pixel, size int) (*SwatchResult, error) {
	if size < 1 || size > MaxSwatchSize {
		return nil, fmt.Errorf("swatch size must be between 1 and %d, got %d", MaxSwatchSize, size)
	}

	enc, err := EncodePNG(imaging.New(size, size, p.Color()))
	if err != nil {
		return nil, err
	}
	return &SwatchResult{EncodedImage: *enc, Color: *NewColorResult(p)}, nil
}
