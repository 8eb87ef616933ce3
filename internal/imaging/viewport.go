package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrInvalidViewport is returned for a scale, size or tap that cannot be
// inverted (non-positive, NaN or infinite values).
var ErrInvalidViewport = errors.New("invalid viewport")

// Size is a width/height pair in floating-point units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeOf returns the pixel dimensions of img as a Size.
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (s Size) vec() Vec { return Vec{X: s.Width, Y: s.Height} }

func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Viewport is the pan/zoom state applied to the displayed image.
//
// Scale is a uniform zoom factor around the centre of the display box and
// Translation is the pan offset in display units, applied after zooming.
// The zero Viewport is not valid; use IdentityViewport.
type Viewport struct {
	Scale       float64 `json:"scale"`
	Translation Vec     `json:"translation"`
}

// IdentityViewport returns the unzoomed, unpanned viewport.
func IdentityViewport() Viewport {
	return Viewport{Scale: 1}
}

// IsIdentity reports whether vp neither zooms nor pans.
func (vp Viewport) IsIdentity() bool {
	return vp.Scale == 1 && vp.Translation == (Vec{})
}

// Limits are the clamps the display applies to a raw Viewport before
// drawing. A tap must be inverted through the same clamped values the image
// was drawn with.
type Limits struct {
	// MinScale is the smallest zoom-out factor. Scales above 1 are never clamped.
	// Zero disables the clamp.
	MinScale float64

	// MaxTranslation bounds each translation axis to ±MaxTranslation*Scale.
	// Zero disables the clamp.
	MaxTranslation float64
}

// DefaultLimits matches the picker screen: zoom out to half size at most,
// pan at most 800 display units per unit of scale.
var DefaultLimits = Limits{MinScale: 0.5, MaxTranslation: 800}

// Effective returns the viewport actually used for drawing.
//
// The translation bound uses the requested scale, not the clamped one, so a
// pinch below MinScale also tightens how far the image can be panned.
func (l Limits) Effective(vp Viewport) Viewport {
	s := vp.Scale
	if s <= 1 && l.MinScale > 0 {
		s = math.Max(l.MinScale, s)
	}

	t := vp.Translation
	if l.MaxTranslation > 0 {
		bound := l.MaxTranslation * vp.Scale
		t.X = clampFloat(t.X, -bound, bound)
		t.Y = clampFloat(t.Y, -bound, bound)
	}
	return Viewport{Scale: s, Translation: t}
}

// Matrix returns the transform from image pixel space to display space.
//
// The image is fitted into display preserving its aspect ratio and centred
// (letterboxed), then zoomed by the effective scale around the display
// centre, then translated.
func (l Limits) Matrix(vp Viewport, display, img Size) (Affine, error) {
	if err := validateViewport(vp, display, img); err != nil {
		return Affine{}, err
	}
	eff := l.Effective(vp)

	fit := math.Min(display.Width/img.Width, display.Height/img.Height)
	letterbox := display.vec().Sub(img.vec().Mul(fit)).Mul(0.5)
	center := display.vec().Mul(0.5)
	shift := center.Add(eff.Translation)

	m := ScaleAffine(fit, fit)
	m = TranslateAffine(letterbox.X, letterbox.Y).Multiply(m)
	m = TranslateAffine(-center.X, -center.Y).Multiply(m)
	m = ScaleAffine(eff.Scale, eff.Scale).Multiply(m)
	m = TranslateAffine(shift.X, shift.Y).Multiply(m)
	return m, nil
}

// DoubleTapScale is the zoom a double tap jumps to.
const DoubleTapScale = 2

// DoubleTapViewport returns the viewport after a double tap at tap.
//
// From the identity viewport it zooms to DoubleTapScale and pans so the
// tapped point moves toward the display centre, the pan being limited to
// half the display on each axis. From any other viewport it resets to the
// identity.
func DoubleTapViewport(tap Vec, current Viewport, display Size) (Viewport, error) {
	if !display.valid() {
		return Viewport{}, fmt.Errorf("%w: display size %vx%v", ErrInvalidViewport, display.Width, display.Height)
	}
	if !tap.finite() {
		return Viewport{}, fmt.Errorf("%w: tap (%v,%v) is not finite", ErrInvalidViewport, tap.X, tap.Y)
	}
	if !current.IsIdentity() {
		return IdentityViewport(), nil
	}

	half := display.vec().Mul(0.5)
	move := half.Sub(tap).Mul(DoubleTapScale)
	return Viewport{
		Scale: DoubleTapScale,
		Translation: Vec{
			X: clampFloat(move.X, -half.X, half.X),
			Y: clampFloat(move.Y, -half.Y, half.Y),
		},
	}, nil
}

// ViewToImage maps a tap in display space to the image pixel under it.
//
// The result is floored to whole pixels. A tap on the letterbox, or outside
// the zoomed image, fails with an *OutOfBoundsError carrying the floored
// coordinate.
func (l Limits) ViewToImage(tap Vec, vp Viewport, display, img Size) (image.Point, error) {
	if !tap.finite() {
		return image.Point{}, fmt.Errorf("%w: tap (%v,%v) is not finite", ErrInvalidViewport, tap.X, tap.Y)
	}
	m, err := l.Matrix(vp, display, img)
	if err != nil {
		return image.Point{}, err
	}
	inv, ok := m.Invert()
	if !ok {
		return image.Point{}, fmt.Errorf("%w: transform is not invertible", ErrInvalidViewport)
	}

	p := inv.Apply(tap)
	fx, fy := math.Floor(p.X), math.Floor(p.Y)
	if fx < 0 || fy < 0 || fx >= img.Width || fy >= img.Height {
		return image.Point{}, &OutOfBoundsError{
			X:      saturatingInt(fx),
			Y:      saturatingInt(fy),
			Width:  int(img.Width),
			Height: int(img.Height),
		}
	}
	return image.Pt(int(fx), int(fy)), nil
}

// ViewToImageCoords maps a display-space tap to image pixel coordinates
// using DefaultLimits. See Limits.ViewToImage.
func ViewToImageCoords(tap Vec, scale float64, translation Vec, display, img Size) (image.Point, error) {
	return DefaultLimits.ViewToImage(tap, Viewport{Scale: scale, Translation: translation}, display, img)
}

func validateViewport(vp Viewport, display, img Size) error {
	if !(vp.Scale > 0) || math.IsInf(vp.Scale, 0) {
		return fmt.Errorf("%w: scale %v must be positive and finite", ErrInvalidViewport, vp.Scale)
	}
	if !vp.Translation.finite() {
		return fmt.Errorf("%w: translation is not finite", ErrInvalidViewport)
	}
	if !display.valid() {
		return fmt.Errorf("%w: display size %vx%v", ErrInvalidViewport, display.Width, display.Height)
	}
	if !img.valid() {
		return fmt.Errorf("%w: image size %vx%v", ErrInvalidViewport, img.Width, img.Height)
	}
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func saturatingInt(f float64) int {
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
