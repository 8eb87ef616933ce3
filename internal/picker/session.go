package picker

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/color-picker-mcp/internal/imaging"
)

// ErrNoImage is returned when a tap arrives before any image was chosen.
var ErrNoImage = errors.New("no image loaded")

// Session is the display state of the picker screen.
//
// The zero Session has no image and no picked color.
type Session struct {
	image  image.Image
	source string

	picked    imaging.Pixel
	hasPicked bool
	pickedAt  image.Point

	limits    imaging.Limits
	hasLimits bool
}

// NewSession returns an empty session that inverts taps through limits.
func NewSession(limits imaging.Limits) Session {
	return Session{limits: limits, hasLimits: true}
}

// WithImage returns s showing img, replacing any previous image wholesale.
// The picked color is kept; only a new sample overwrites it.
func (s Session) WithImage(img image.Image, source string) Session {
	s.image = img
	s.source = source
	return s
}

// Image returns the current image, or nil.
func (s Session) Image() image.Image { return s.image }

// Source returns where the current image came from (typically its path).
func (s Session) Source() string { return s.source }

// HasImage reports whether an image is loaded.
func (s Session) HasImage() bool { return s.image != nil }

// Picked returns the most recently picked pixel and whether there is one.
func (s Session) Picked() (imaging.Pixel, bool) {
	return s.picked, s.hasPicked
}

// PickedAt returns the image-space coordinate of the last pick.
func (s Session) PickedAt() (image.Point, bool) {
	return s.pickedAt, s.hasPicked
}

// Limits returns the viewport clamps used by Tap.
func (s Session) Limits() imaging.Limits {
	if !s.hasLimits {
		return imaging.DefaultLimits
	}
	return s.limits
}

// SampleAt samples the current image at image-space (x, y) and records the
// result as the picked color.
//
// On any error the returned session is s unchanged. An out-of-range
// coordinate fails with an error matching imaging.ErrOutOfBounds.
func SampleAt(s Session, x, y int) (Session, imaging.Pixel, error) {
	if s.image == nil {
		return s, imaging.Pixel{}, ErrNoImage
	}
	p, err := imaging.Sample(s.image, x, y)
	if err != nil {
		return s, imaging.Pixel{}, err
	}

	s.picked = p
	s.hasPicked = true
	s.pickedAt = image.Pt(x, y)
	return s, p, nil
}

// Tap maps a display-space tap through vp onto the current image and samples
// the pixel under it.
//
// vp and display must be the exact values the image was drawn with when the
// tap happened; mid-animation frames are the host's concern. On any error the
// returned session is s unchanged, so a tap outside the image is a no-op.
func Tap(s Session, tap imaging.Vec, vp imaging.Viewport, display imaging.Size) (Session, imaging.Pixel, error) {
	if s.image == nil {
		return s, imaging.Pixel{}, ErrNoImage
	}
	pt, err := s.Limits().ViewToImage(tap, vp, display, imaging.SizeOf(s.image))
	if err != nil {
		return s, imaging.Pixel{}, fmt.Errorf("tap at (%g,%g): %w", tap.X, tap.Y, err)
	}
	return SampleAt(s, pt.X, pt.Y)
}
