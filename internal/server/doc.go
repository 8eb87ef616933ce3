// Package server implements the MCP (Model Context Protocol) server for the
// color picker.
//
// The server exposes a single picker session over JSON-RPC 2.0. A client
// loads an image, reports taps in display coordinates together with the
// zoom and pan the user currently sees, and reads back the color under the
// tap exactly as stored in the image.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Acquisition:
//   - image_load: Load an image and make it the session image
//   - image_dimensions: Get width and height
//
// Color Operations:
//   - image_sample_color: Get the color at a pixel
//   - image_sample_colors_multi: Sample multiple points
//   - image_dominant_colors: Extract a color palette
//   - image_loupe: Magnified view around a pixel
//
// Viewport Operations:
//   - view_to_image: Map a display tap to an image pixel
//   - view_render: Render the display box for a zoom and pan
//   - view_double_tap: Zoom toward a double tap, or reset the view
//
// Picker Session:
//   - color_pick_tap: Pick the color under a tap
//   - color_picked: Read back the picked color with a swatch
//
// Tools that take an optional path fall back to the session image.
//
// # Session
//
// The session is a picker.Session value guarded by a mutex. Handlers replace
// it wholesale; a tap outside the image leaves it unchanged and is reported
// with "ignored": true rather than as an error.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    logger.Error("server error", "error", err)
//	}
package server
