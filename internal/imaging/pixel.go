package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
)

// ErrOutOfBounds is matched by every OutOfBoundsError via errors.Is.
var ErrOutOfBounds = errors.New("coordinates outside image bounds")

// ErrEmptyImage is returned when sampling a nil or zero-sized image.
var ErrEmptyImage = errors.New("image is empty")

// OutOfBoundsError reports a coordinate that does not address a pixel.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinates (%d,%d) outside image bounds %dx%d", e.X, e.Y, e.Width, e.Height)
}

// Is reports whether target is ErrOutOfBounds.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// Pixel is a single stored pixel with 8-bit, non-premultiplied channels.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Hex formats the pixel as "#rrggbb" (lowercase, alpha excluded).
func (p Pixel) Hex() string {
	const digits = "0123456789abcdef"
	buf := [7]byte{'#'}
	for i, c := range [3]uint8{p.R, p.G, p.B} {
		buf[1+2*i] = digits[c>>4]
		buf[2+2*i] = digits[c&0x0f]
	}
	return string(buf[:])
}

// DecimalTriple formats the pixel as "r;g;b" (alpha excluded, no padding).
func (p Pixel) DecimalTriple() string {
	b := make([]byte, 0, 11)
	b = strconv.AppendUint(b, uint64(p.R), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(p.G), 10)
	b = append(b, ';')
	b = strconv.AppendUint(b, uint64(p.B), 10)
	return string(b)
}

// Color returns the pixel as a color.NRGBA, suitable as a swatch fill.
func (p Pixel) Color() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// String implements fmt.Stringer.
func (p Pixel) String() string {
	return p.Hex()
}

// Sample returns the pixel stored at (x, y).
//
// Coordinates are 0-based offsets from the image's top-left corner
// (img.Bounds().Min), so valid values are 0 <= x < width and 0 <= y < height.
// Anything else fails with an *OutOfBoundsError.
//
// Channels are read verbatim for *image.NRGBA and *image.RGBA. Other color
// models go through color.NRGBAModel, which is exact for 8-bit sources.
func Sample(img image.Image, x, y int) (Pixel, error) {
	if img == nil {
		return Pixel{}, ErrEmptyImage
	}
	b := img.Bounds()
	if b.Empty() {
		return Pixel{}, ErrEmptyImage
	}
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return Pixel{}, &OutOfBoundsError{X: x, Y: y, Width: b.Dx(), Height: b.Dy()}
	}
	px, py := b.Min.X+x, b.Min.Y+y

	switch src := img.(type) {
	case *image.NRGBA:
		c := src.NRGBAAt(px, py)
		return Pixel{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	case *image.RGBA:
		c := src.RGBAAt(px, py)
		return Pixel{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	c := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
	return Pixel{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}
