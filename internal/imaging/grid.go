package imaging

import (
	"image"
	"image/color"
)

// minGridZoom is the smallest loupe zoom that gets cell grid lines. Below it
// the lines would cover most of each cell.
const minGridZoom = 4

var gridLineColor = color.NRGBA{128, 128, 128, 255}

// drawPixelGrid draws a one pixel line along the top and left edge of every
// zoom x zoom cell, so each magnified source pixel keeps zoom-1 pixels of its
// own color.
func drawPixelGrid(dst *image.NRGBA, zoom int, c color.NRGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (x-b.Min.X)%zoom == 0 || (y-b.Min.Y)%zoom == 0 {
				dst.SetNRGBA(x, y, c)
			}
		}
	}
}

// outlineCell frames the cell at (col, row) just inside the grid lines.
func outlineCell(dst *image.NRGBA, col, row, zoom int, c color.NRGBA) {
	b := dst.Bounds()
	x0, y0 := b.Min.X+col*zoom+1, b.Min.Y+row*zoom+1
	x1, y1 := x0+zoom-2, y0+zoom-2

	for x := x0; x <= x1; x++ {
		dst.SetNRGBA(x, y0, c)
		dst.SetNRGBA(x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		dst.SetNRGBA(x0, y, c)
		dst.SetNRGBA(x1, y, c)
	}
}

// markerColor picks black or white, whichever stands out against p.
func markerColor(p Pixel) color.NRGBA {
	// Rec. 601 luma, integer form.
	luma := (299*int(p.R) + 587*int(p.G) + 114*int(p.B)) / 1000
	if luma >= 128 {
		return color.NRGBA{0, 0, 0, 255}
	}
	return color.NRGBA{255, 255, 255, 255}
}
