package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(optional bool) map[string]interface{} {
	desc := "Absolute path to the image file"
	if optional {
		desc = "Absolute path to the image file. Defaults to the image set by image_load"
	}
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

func vecProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

func sizeProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"width":  map[string]interface{}{"type": "number"},
			"height": map[string]interface{}{"type": "number"},
		},
		"required": []string{"width", "height"},
	}
}

// viewportProperties are shared by every tool evaluated against a display.
func viewportProperties() map[string]interface{} {
	return map[string]interface{}{
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Current zoom factor around the display centre. Values at or below 1 are clamped to at least 0.5. Default 1.0",
			"default":     1.0,
		},
		"translation": vecProperty("Current pan offset in display units, applied after zoom. Clamped to ±800·scale per axis"),
		"display":     sizeProperty("Size of the display box the image is fitted into"),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	tapProps := viewportProperties()
	tapProps["tap"] = vecProperty("Tap position in display coordinates")

	viewProps := viewportProperties()
	viewProps["tap"] = vecProperty("Tap position in display coordinates")
	viewProps["path"] = pathProperty(true)
	viewProps["image_size"] = sizeProperty("Native image size in pixels. Defaults to the size of the image at path")

	doubleTapProps := viewportProperties()
	doubleTapProps["tap"] = vecProperty("Double-tap position in display coordinates")

	renderProps := viewportProperties()
	renderProps["path"] = pathProperty(true)
	renderProps["background"] = map[string]interface{}{
		"type":        "string",
		"description": "Fill color for the letterbox area as #rrggbb. Default #d3d3d3",
	}

	return []Tool{
		// Image Acquisition
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Sets this as the picker's current image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(false),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(true),
				},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color stored at a pixel coordinate, as #rrggbb, r;g;b, RGBA and HSL. Does not change the picked color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(true),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get color values at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(true),
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors in an image or region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(true),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
					"region": map[string]interface{}{
						"type":        "object",
						"description": "Optional region to analyze (x1,y1 inclusive; x2,y2 exclusive)",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
					},
				},
			},
		},
		{
			Name:        "image_loupe",
			Description: "Return a magnified, pixel-exact view of the area around a pixel as base64 PNG, with the center pixel's color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(true),
					"x":    map[string]interface{}{"type": "integer", "description": "Center X coordinate"},
					"y":    map[string]interface{}{"type": "integer", "description": "Center Y coordinate"},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels on each side of the center. Default 4",
						"default":     4,
					},
					"zoom": map[string]interface{}{
						"type":        "integer",
						"description": "Output pixels per source pixel. Default 8",
						"default":     8,
					},
					"grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw cell grid lines and outline the center pixel (zoom 4 and up). Default true",
						"default":     true,
					},
				},
				"required": []string{"x", "y"},
			},
		},

		// Viewport Operations
		{
			Name:        "view_to_image",
			Description: "Map a tap in display coordinates to the image pixel under it, given the current zoom and pan. Reports in_bounds=false for taps on the letterbox or outside the image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": viewProps,
				"required":   []string{"tap", "display"},
			},
		},
		{
			Name:        "view_render",
			Description: "Render the display box as the user sees it for a zoom and pan, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
				"required":   []string{"display"},
			},
		},
		{
			Name:        "view_double_tap",
			Description: "Return the zoom and pan after a double tap. From the unzoomed view it zooms to 2x toward the tap; from any other view it resets to unzoomed.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": doubleTapProps,
				"required":   []string{"tap", "display"},
			},
		},

		// Picker Session
		{
			Name:        "color_pick_tap",
			Description: "Tap the current image at a display position and pick the color under it. Taps outside the image are ignored and keep the previous color.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": tapProps,
				"required":   []string{"tap", "display"},
			},
		},
		{
			Name:        "color_picked",
			Description: "Get the most recently picked color with a solid swatch image, optionally measured against a reference color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"swatch_size": map[string]interface{}{
						"type":        "integer",
						"description": "Swatch side in pixels. Default 100",
						"default":     100,
					},
					"reference": map[string]interface{}{
						"type":        "string",
						"description": "Color to compare the picked color against, as #rrggbb. Reports RGB distance and CIEDE2000 delta E",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
