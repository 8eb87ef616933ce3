package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// MaxRenderSide bounds each side of a rendered display box.
const MaxRenderSide = 4096

// RenderResult is the display box as drawn for a viewport.
type RenderResult struct {
	EncodedImage

	// Visible is the image-space region that ended up on screen; empty when
	// the image was panned entirely out of the box.
	Visible struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"visible"`
}

// RenderView draws img into a display box the way the picker screen shows
// it for vp, on a background fill. Only the visible part of the image is
// resampled, so deep zooms on large photos stay cheap.
func (l Limits) RenderView(img image.Image, vp Viewport, display Size, background color.Color) (*RenderResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	imgSize := SizeOf(img)
	m, err := l.Matrix(vp, display, imgSize)
	if err != nil {
		return nil, err
	}
	inv, ok := m.Invert()
	if !ok {
		return nil, fmt.Errorf("%w: transform is not invertible", ErrInvalidViewport)
	}

	dw, dh := int(math.Ceil(display.Width)), int(math.Ceil(display.Height))
	if dw > MaxRenderSide || dh > MaxRenderSide {
		return nil, fmt.Errorf("display %dx%d exceeds %d pixels per side", dw, dh, MaxRenderSide)
	}
	canvas := imaging.New(dw, dh, background)

	// Both transforms are axis-aligned, so two corners describe the visible area.
	tl := inv.Apply(Vec{X: 0, Y: 0})
	br := inv.Apply(Vec{X: float64(dw), Y: float64(dh)})
	x1 := int(clampFloat(math.Floor(tl.X), 0, imgSize.Width))
	y1 := int(clampFloat(math.Floor(tl.Y), 0, imgSize.Height))
	x2 := int(clampFloat(math.Ceil(br.X), 0, imgSize.Width))
	y2 := int(clampFloat(math.Ceil(br.Y), 0, imgSize.Height))

	res := &RenderResult{}
	if x1 < x2 && y1 < y2 {
		dst0 := m.Apply(Vec{X: float64(x1), Y: float64(y1)})
		dst1 := m.Apply(Vec{X: float64(x2), Y: float64(y2)})
		w := int(math.Round(dst1.X - dst0.X))
		h := int(math.Round(dst1.Y - dst0.Y))
		if w > 4*MaxRenderSide || h > 4*MaxRenderSide {
			return nil, fmt.Errorf("zoom %v too deep to render", vp.Scale)
		}
		if w > 0 && h > 0 {
			visible := imaging.Crop(img, image.Rect(x1, y1, x2, y2).Add(img.Bounds().Min))
			scaled := transform.Resize(visible, w, h, transform.Linear)
			canvas = imaging.Overlay(canvas, scaled, image.Pt(int(math.Round(dst0.X)), int(math.Round(dst0.Y))), 1.0)
			res.Visible.X1, res.Visible.Y1, res.Visible.X2, res.Visible.Y2 = x1, y1, x2, y2
		}
	}

	enc, err := EncodePNG(canvas)
	if err != nil {
		return nil, err
	}
	res.EncodedImage = *enc
	return res, nil
}
