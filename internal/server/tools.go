package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the facade image file",
	}
}

// withOverrides adds the pipeline configuration overrides to a property set.
// Omitted overrides keep the server's configuration.
func withOverrides(props map[string]interface{}) map[string]interface{} {
	props["floor_min"] = map[string]interface{}{
		"type":        "integer",
		"description": "Smallest floor height (vertical mirror offset) scanned, in pixels (default 10)",
		"default":     10,
	}
	props["floor_max"] = map[string]interface{}{
		"type":        "integer",
		"description": "Largest floor height scanned, in pixels (default 40)",
		"default":     40,
	}
	props["tile_min"] = map[string]interface{}{
		"type":        "integer",
		"description": "Smallest tile width (horizontal mirror offset) scanned, in pixels (default 10)",
		"default":     10,
	}
	props["tile_max"] = map[string]interface{}{
		"type":        "integer",
		"description": "Largest tile width scanned, in pixels (default 40)",
		"default":     40,
	}
	props["sigma"] = map[string]interface{}{
		"type":        "number",
		"description": "Gaussian smoothing of the gradient profiles in pixels. Omit to use 0.1 x estimated floor height",
	}
	props["min_tile_size"] = map[string]interface{}{
		"type":        "integer",
		"description": "Tiles smaller than this along either axis are not subdivided (default 4)",
		"default":     4,
	}
	props["max_candidates"] = map[string]interface{}{
		"type":        "integer",
		"description": "Largest number of split candidates searched exhaustively per axis (default 20)",
		"default":     20,
	}
	props["candidate_policy"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"strict", "strongest"},
		"description": "What to do when there are more candidates than max_candidates: fail, or keep the most symmetric ones (default strict)",
		"default":     "strict",
	}
	props["use_edge_map"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Run the symmetry scan on a Sobel edge map instead of luminance (default true)",
		"default":     true,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Access
		{
			Name:        "facade_load",
			Description: "Load a facade image and return its dimensions, format and channel count. The image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "facade_edge_map",
			Description: "Return the Sobel edge map the symmetry scan runs on, as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pipeline Stages
		{
			Name:        "facade_gradient_profile",
			Description: "Compute the smoothed gradient profiles Ver (per row) and Hor (per column). Their local minima are the candidate floor and column boundaries.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": pathProperty(),
					"floor_height": map[string]interface{}{
						"type":        "integer",
						"description": "Known floor height in pixels; sets sigma to 0.1 x floor_height. Omit to estimate it from the symmetry profile",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "facade_symmetry_profile",
			Description: "For every row and column, find the mirror offset that makes the bands on either side most similar. Returns both profiles and the estimated floor height and tile width.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "facade_segment",
			Description: "Run the full segmentation: choose row and column split lines, then subdivide the resulting tiles until no tile type agrees on a further cut.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": pathProperty(),
					"include_profiles": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the symmetry and gradient profiles in the result (default false)",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "facade_irreducible",
			Description: "Segment the facade and fold it along its split lines into the irreducible facade: the smallest image that tiles back into the original. Returned as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},

		// Visualization
		{
			Name:        "facade_render_structure",
			Description: "Segment the facade and draw the result over it: split lines (mode splits) or tile outlines colored by tile type (mode tiles). Returned as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": pathProperty(),
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"splits", "tiles"},
						"description": "What to draw (default splits)",
						"default":     "splits",
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Split line color as hex (e.g., '#FF0000C0'). Default semi-transparent red",
						"default":     "#FF0000C0",
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Label each split line with its coordinate (default false)",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "facade_profile_plot",
			Description: "Segment the facade and plot one profile with the chosen split lines marked. Returned as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withOverrides(map[string]interface{}{
					"path": pathProperty(),
					"profile": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"vertical", "horizontal", "ver", "hor"},
						"description": "vertical/horizontal plot similarity and mirror offset; ver/hor plot the gradient profile (default vertical)",
						"default":     "vertical",
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Plot width in inches (default 8)",
						"default":     8,
					},
					"height": map[string]interface{}{
						"type":        "number",
						"description": "Plot height in inches (default 4)",
						"default":     4,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{"tools": GetToolDefinitions()})
}
