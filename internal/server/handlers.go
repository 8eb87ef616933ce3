package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/color-picker-mcp/internal/imaging"
	"github.com/ironsheep/color-picker-mcp/internal/picker"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "color_pick_tap").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Info("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Resolves the image (explicit path or the session image)
//  4. Calls the appropriate imaging/picker function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Image Acquisition
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_loupe":
		return s.handleImageLoupe(args)

	// Viewport Operations
	case "view_to_image":
		return s.handleViewToImage(args)
	case "view_render":
		return s.handleViewRender(args)
	case "view_double_tap":
		return s.handleViewDoubleTap(args)

	// Picker Session
	case "color_pick_tap":
		return s.handleColorPickTap(args)
	case "color_picked":
		return s.handleColorPicked(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// resolveImage loads path, or returns the session image when path is empty.
func (s *Server) resolveImage(path string) (image.Image, error) {
	if path != "" {
		return s.cache.Load(path)
	}
	s.mu.Lock()
	img := s.session.Image()
	s.mu.Unlock()
	if img == nil {
		return nil, fmt.Errorf("%w: call image_load first or pass a path", picker.ErrNoImage)
	}
	return img, nil
}

// === Image Acquisition Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	// Picking a file again re-reads it; it may have changed since.
	s.cache.Evict(a.Path)
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.session = s.session.WithImage(img, a.Path)
	s.mu.Unlock()

	s.logger.Debug("image loaded", "path", a.Path, "width", info.Width, "height", info.Height, "cached", s.cache.Len())
	return info, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		img, err := s.resolveImage("")
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		return &imaging.DimensionsResult{Width: b.Dx(), Height: b.Dy()}, nil
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

type imageDominantColorsArgs struct {
	Path   string `json:"path"`
	Count  int    `json:"count"`
	Region *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region,omitempty"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}

	var region *imaging.Region
	if a.Region != nil {
		region = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return imaging.DominantColors(img, a.Count, region)
}

type imageLoupeArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Radius int    `json:"radius"`
	Zoom   int    `json:"zoom"`
	Grid   *bool  `json:"grid"`
}

func (s *Server) handleImageLoupe(args json.RawMessage) (interface{}, error) {
	var a imageLoupeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 4
	}
	if a.Zoom == 0 {
		a.Zoom = 8
	}
	img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}
	grid := a.Grid == nil || *a.Grid
	return imaging.Loupe(img, a.X, a.Y, a.Radius, a.Zoom, grid)
}

// === Viewport Operation Handlers ===

// viewportArgs is the display state a tap or render is evaluated against.
// An absent scale means unzoomed; an explicit 0 is passed through and
// rejected as an invalid viewport.
type viewportArgs struct {
	Scale       *float64     `json:"scale"`
	Translation imaging.Vec  `json:"translation"`
	Display     imaging.Size `json:"display"`
}

func (a viewportArgs) viewport() imaging.Viewport {
	scale := 1.0
	if a.Scale != nil {
		scale = *a.Scale
	}
	return imaging.Viewport{Scale: scale, Translation: a.Translation}
}

type viewToImageArgs struct {
	viewportArgs
	Path      string        `json:"path"`
	Tap       imaging.Vec   `json:"tap"`
	ImageSize *imaging.Size `json:"image_size,omitempty"`
}

// ViewToImageResult is the image pixel a display-space tap maps to.
type ViewToImageResult struct {
	InBounds bool   `json:"in_bounds"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Reason   string `json:"reason,omitempty"`
}

func (s *Server) handleViewToImage(args json.RawMessage) (interface{}, error) {
	var a viewToImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var size imaging.Size
	if a.ImageSize != nil {
		size = *a.ImageSize
	} else {
		img, err := s.resolveImage(a.Path)
		if err != nil {
			return nil, err
		}
		size = imaging.SizeOf(img)
	}

	pt, err := s.limits.ViewToImage(a.Tap, a.viewport(), a.Display, size)
	var oob *imaging.OutOfBoundsError
	switch {
	case errors.As(err, &oob):
		return &ViewToImageResult{InBounds: false, X: oob.X, Y: oob.Y, Reason: oob.Error()}, nil
	case err != nil:
		return nil, err
	}
	return &ViewToImageResult{InBounds: true, X: pt.X, Y: pt.Y}, nil
}

type viewRenderArgs struct {
	viewportArgs
	Path       string `json:"path"`
	Background string `json:"background"`
}

func (s *Server) handleViewRender(args json.RawMessage) (interface{}, error) {
	var a viewRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Background == "" {
		a.Background = "#d3d3d3"
	}
	bg, err := colorful.Hex(a.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", a.Background, err)
	}
	img, err := s.resolveImage(a.Path)
	if err != nil {
		return nil, err
	}
	return s.limits.RenderView(img, a.viewport(), a.Display, bg)
}

type viewDoubleTapArgs struct {
	viewportArgs
	Tap imaging.Vec `json:"tap"`
}

func (s *Server) handleViewDoubleTap(args json.RawMessage) (interface{}, error) {
	var a viewDoubleTapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	vp, err := imaging.DoubleTapViewport(a.Tap, a.viewport(), a.Display)
	if err != nil {
		return nil, err
	}
	return &vp, nil
}

// === Picker Session Handlers ===

type colorPickTapArgs struct {
	viewportArgs
	Tap imaging.Vec `json:"tap"`
}

// PickResult is the outcome of a tap on the session image.
//
// A tap outside the image is not an error: Ignored is set and the
// previously picked color is left untouched.
type PickResult struct {
	Ignored bool                 `json:"ignored"`
	Reason  string               `json:"reason,omitempty"`
	X       int                  `json:"x"`
	Y       int                  `json:"y"`
	Color   *imaging.ColorResult `json:"color,omitempty"`
	Source  string               `json:"source,omitempty"`
}

func (s *Server) handleColorPickTap(args json.RawMessage) (interface{}, error) {
	var a colorPickTapArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	next, p, err := picker.Tap(s.session, a.Tap, a.viewport(), a.Display)
	s.session = next
	s.mu.Unlock()

	switch {
	case errors.Is(err, imaging.ErrOutOfBounds):
		s.logger.Debug("tap ignored", "x", a.Tap.X, "y", a.Tap.Y, "reason", err)
		return &PickResult{Ignored: true, Reason: err.Error()}, nil
	case err != nil:
		return nil, err
	}

	at, _ := next.PickedAt()
	return &PickResult{
		X:      at.X,
		Y:      at.Y,
		Color:  imaging.NewColorResult(p),
		Source: next.Source(),
	}, nil
}

type colorPickedArgs struct {
	SwatchSize int    `json:"swatch_size"`
	Reference  string `json:"reference"`
}

// PickedResult reports the session's current picked color.
type PickedResult struct {
	Picked     bool                           `json:"picked"`
	X          int                            `json:"x"`
	Y          int                            `json:"y"`
	Swatch     *imaging.SwatchResult          `json:"swatch,omitempty"`
	Difference *imaging.ColorDifferenceResult `json:"difference,omitempty"`
}

func (s *Server) handleColorPicked(args json.RawMessage) (interface{}, error) {
	var a colorPickedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SwatchSize == 0 {
		a.SwatchSize = 100
	}
	var ref *imaging.Pixel
	if a.Reference != "" {
		p, err := imaging.ParseHexPixel(a.Reference)
		if err != nil {
			return nil, fmt.Errorf("invalid reference color %q: %w", a.Reference, err)
		}
		ref = &p
	}

	s.mu.Lock()
	p, ok := s.session.Picked()
	at, _ := s.session.PickedAt()
	s.mu.Unlock()

	if !ok {
		return &PickedResult{Picked: false}, nil
	}
	swatch, err := imaging.Swatch(p, a.SwatchSize)
	if err != nil {
		return nil, err
	}
	res := &PickedResult{Picked: true, X: at.X, Y: at.Y, Swatch: swatch}
	if ref != nil {
		res.Difference = imaging.MeasureColorDifference(p, *ref)
	}
	return res, nil
}
