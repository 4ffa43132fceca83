package server

import (
	"strings"

	"github.com/ironsheep/image-pipeline/internal/pipeline"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func idProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Image id returned by image_load, image_blank or a derived-image tool",
	}
}

func intProperty(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func regionProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func chartProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Also return a PNG chart as chart_png_base64",
		"default":     false,
	}
}

// GetToolDefinitions returns all available tools. The image_apply
// description lists the operations registered in reg.
func GetToolDefinitions(reg *pipeline.Registry) []Tool {
	return []Tool{
		// Image store
		{
			Name:        "image_load",
			Description: "Load an image file into the session store. Color files load as a color image, single-channel files as gray. Returns the new image id with its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_blank",
			Description: "Create a color image filled with a single color and store it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width":  intProperty("Width in pixels"),
					"height": intProperty("Height in pixels"),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Fill color in hex (#RRGGBB or #RRGGBBAA)",
						"default":     "#000000",
					},
				},
				"required": []string{"width", "height"},
			},
		},
		{
			Name:        "image_info",
			Description: "Return the kind, dimensions, channel count and name of a stored image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"id": idProperty()},
				"required":   []string{"id"},
			},
		},
		{
			Name:        "image_log",
			Description: "Return the processing log of a stored image: one entry per operation that produced it.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"id": idProperty()},
				"required":   []string{"id"},
			},
		},
		{
			Name:        "image_list",
			Description: "List the ids of all stored images, oldest first.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_delete",
			Description: "Remove an image from the session store.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{"id": idProperty()},
				"required":   []string{"id"},
			},
		},
		{
			Name:        "image_export",
			Description: "Write a stored image to a file (format taken from the extension), or return it base64-encoded when no path is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Destination file; .png, .jpg, .gif, .bmp or .tif",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Encoding for base64 output",
						"enum":        []string{"png", "jpeg", "gif", "bmp", "tiff"},
						"default":     "png",
					},
				},
				"required": []string{"id"},
			},
		},

		// Processing
		{
			Name:        "image_operations",
			Description: "List the operations image_apply and image_run accept, with the number of extra image operands each needs.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name: "image_apply",
			Description: "Apply one operation to a stored image and store the result. Operations: " +
				strings.Join(reg.Names(), ", ") + ".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"op": map[string]interface{}{
						"type":        "string",
						"description": "Operation name",
					},
					"params": map[string]interface{}{
						"type":        "object",
						"description": "Operation parameters, e.g. {\"method\": \"otsu\"} for threshold",
					},
					"with_ids": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Ids of extra operand images (combine, shading_white_black, idft mask)",
					},
				},
				"required": []string{"id", "op"},
			},
		},
		{
			Name:        "image_run",
			Description: "Run a recipe (an ordered list of operations) on a stored image and store the final result. Step operands in \"with\" are image ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"recipe": map[string]interface{}{
						"type":        "object",
						"description": "Inline recipe: {\"name\": ..., \"steps\": [{\"op\": ..., \"params\": {...}, \"with\": [...]}]}",
					},
					"recipe_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a YAML recipe file, used when recipe is absent",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_load_lut",
			Description: "Parse a lookup-table or 2D-filter document and report its contents. Apply it with image_apply op apply_lut or filter2d and a file parameter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the YAML document",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_grid",
			Description: "Draw a coordinate grid over a stored image and store the result.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels between grid lines",
						"default":     50,
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with coordinates",
						"default":     true,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid line color in hex",
						"default":     "#FF000080",
					},
				},
				"required": []string{"id"},
			},
		},

		// Statistics
		{
			Name:        "image_neighborhood",
			Description: "Return the pixel values in a square window around a point with per-channel statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":     idProperty(),
					"x":      intProperty("Center X coordinate"),
					"y":      intProperty("Center Y coordinate"),
					"radius": intProperty("Window radius; the window is 2*radius+1 wide"),
				},
				"required": []string{"id", "x", "y", "radius"},
			},
		},
		{
			Name:        "image_line_profile",
			Description: "Sample pixel values along a line between two points with per-channel statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":    idProperty(),
					"x1":    intProperty("Start X"),
					"y1":    intProperty("Start Y"),
					"x2":    intProperty("End X"),
					"y2":    intProperty("End Y"),
					"chart": chartProperty(),
				},
				"required": []string{"id", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_histogram",
			Description: "Compute the 256-bin histogram of each channel, over the whole image or a region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":     idProperty(),
					"region": regionProperty("Optional region; the whole image when absent"),
					"chart":  chartProperty(),
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "image_projection",
			Description: "Sum pixel values along rows or columns of a region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"axis": map[string]interface{}{
						"type":        "string",
						"description": "rows gives one sum per row, columns one sum per column",
						"enum":        []string{"rows", "columns"},
					},
					"region": regionProperty("Optional region; the whole image when absent"),
					"chart":  chartProperty(),
				},
				"required": []string{"id", "axis"},
			},
		},
		{
			Name:        "image_pixel_get",
			Description: "Read one pixel: raw channel values plus hex, RGB and HSL forms.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"x":  intProperty("X coordinate (0-based)"),
					"y":  intProperty("Y coordinate (0-based)"),
				},
				"required": []string{"id", "x", "y"},
			},
		},
		{
			Name:        "image_pixel_set",
			Description: "Write one pixel in place. Color images take three values in B, G, R order; other kinds take one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"x":  intProperty("X coordinate (0-based)"),
					"y":  intProperty("Y coordinate (0-based)"),
					"values": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
					},
				},
				"required": []string{"id", "x", "y", "values"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors of an image or region.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return",
						"default":     5,
					},
					"region": regionProperty("Optional region; the whole image when absent"),
				},
				"required": []string{"id"},
			},
		},

		// Measurement
		{
			Name:        "image_measure",
			Description: "Measure a set of points: the distance between consecutive points and whether they line up horizontally or vertically.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id": idProperty(),
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x": map[string]interface{}{"type": "integer"},
								"y": map[string]interface{}{"type": "integer"},
							},
							"required": []string{"x", "y"},
						},
						"minItems": 2,
					},
					"tolerance": map[string]interface{}{
						"type":        "integer",
						"description": "Alignment tolerance in pixels",
						"default":     5,
					},
				},
				"required": []string{"id", "points"},
			},
		},
		{
			Name:        "image_compare_regions",
			Description: "Compare two regions of an image pixel by pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":      idProperty(),
					"region1": regionProperty("First region"),
					"region2": regionProperty("Second region"),
				},
				"required": []string{"id", "region1", "region2"},
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
			"tools": GetToolDefinitions(s.runner.Registry),
		},
	}
}
