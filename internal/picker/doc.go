// Package picker holds the state of one color-picking screen.
//
// A Session is a plain value: the currently chosen image and the most
// recently picked color. Operations take a Session and return the updated
// one, so there is no shared mutable state to guard. A host that keeps a
// single "current" session (the MCP server does) owns the synchronization.
//
// The flow for a tap is:
//
//	s = s.WithImage(img, path)              // user chose a picture
//	s, px, err = picker.Tap(s, tap, vp, display)
//	if errors.Is(err, imaging.ErrOutOfBounds) {
//	    // tap on the letterbox or outside the image: ignore it
//	}
//
// Sampling never starts without an image: Tap and SampleAt fail with
// ErrNoImage instead.
package picker
