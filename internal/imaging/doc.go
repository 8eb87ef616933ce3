// Package imaging provides the pixel-level core of the color picker.
//
// It reads the color stored at a pixel, formats it for display, and maps a
// tap in display space back to the pixel it landed on. All operations work
// with standard Go image.Image values.
//
// # Coordinate Systems
//
// Image space is the native pixel grid of the decoded raster:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Coordinates are offsets from img.Bounds().Min
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// View space is the display box the image is drawn into. The image is fitted
// into the box keeping its aspect ratio and centred, then zoomed around the
// box centre by a Viewport's scale and shifted by its translation. Limits
// holds the clamps applied to the raw viewport before drawing; the same clamps
// must be applied when inverting a tap, which is what ViewToImage does.
//
// # Color Representation
//
// A sampled Pixel carries the stored channels verbatim (8-bit, not
// premultiplied). It formats as:
//   - Hex: "#rrggbb", lowercase, alpha excluded
//   - DecimalTriple: "r;g;b", alpha excluded
//
// ColorResult adds RGB, RGBA and HSL views for clients.
// MeasureColorDifference compares two pixels by RGB distance and CIEDE2000.
//
// # Inspection
//
// Loupe magnifies the neighbourhood of a pixel with an optional cell grid,
// Swatch renders a solid fill of a picked color, and RenderView reproduces
// the display box for a viewport.
//
// # Error Handling
//
// Out-of-range coordinates, whether passed directly to Sample or produced by
// inverting a tap, fail with *OutOfBoundsError, which matches ErrOutOfBounds
// under errors.Is. Callers that want a tap outside the image to be a no-op
// check for it and ignore the tap. Non-invertible viewports fail with
// ErrInvalidViewport.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is a pure
// function of its arguments.
package imaging
