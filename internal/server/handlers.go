package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/facade-tools-mcp/internal/facade"
	"github.com/ironsheep/facade-tools-mcp/internal/imaging"
	"github.com/ironsheep/facade-tools-mcp/internal/render"
	"github.com/ironsheep/facade-tools-mcp/internal/split"
	"github.com/ironsheep/facade-tools-mcp/internal/symmetry"
)

// errInvalidParams marks argument errors so they map to JSON-RPC -32602.
var errInvalidParams = errors.New("invalid params")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "facade_load", "facade_segment").
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
// Bad arguments and invalid configuration overrides return code -32602; any
// other tool failure returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidParams) || errors.Is(err, facade.ErrInvalidConfig) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies configuration overrides over the server's configuration
//  3. Loads images and rasters from cache as needed
//  4. Runs the pipeline stage the tool exposes
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if s.debug {
		defer func(start time.Time) {
			log.Printf("tool %s finished in %v", name, time.Since(start))
		}(time.Now())
	}

	switch name {
	// Image access
	case "facade_load":
		return s.handleFacadeLoad(args)
	case "facade_edge_map":
		return s.handleFacadeEdgeMap(args)

	// Pipeline stages
	case "facade_gradient_profile":
		return s.handleFacadeGradientProfile(args)
	case "facade_symmetry_profile":
		return s.handleFacadeSymmetryProfile(args)
	case "facade_segment":
		return s.handleFacadeSegment(args)
	case "facade_irreducible":
		return s.handleFacadeIrreducible(args)

	// Visualization
	case "facade_render_structure":
		return s.handleFacadeRenderStructure(args)
	case "facade_profile_plot":
		return s.handleFacadeProfilePlot(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidParams, name)
	}
}

// errorResponse creates a JSON-RPC error response. An empty data string is
// omitted from the response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func requirePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path is required", errInvalidParams)
	}
	return nil
}

// configArgs are the per-call overrides accepted by every pipeline tool.
// Zero values keep the server's configuration.
type configArgs struct {
	FloorMin        int     `json:"floor_min"`
	FloorMax        int     `json:"floor_max"`
	TileMin         int     `json:"tile_min"`
	TileMax         int     `json:"tile_max"`
	Sigma           float64 `json:"sigma"`
	MinTileSize     int     `json:"min_tile_size"`
	MaxCandidates   int     `json:"max_candidates"`
	CandidatePolicy string  `json:"candidate_policy"`
	UseEdgeMap      *bool   `json:"use_edge_map"`
}

// apply returns base with the overrides applied, validated.
func (a configArgs) apply(base facade.Config) (facade.Config, error) {
	cfg := base
	if a.FloorMin != 0 {
		cfg.VerticalRange.Min = a.FloorMin
	}
	if a.FloorMax != 0 {
		cfg.VerticalRange.Max = a.FloorMax
	}
	if a.TileMin != 0 {
		cfg.HorizontalRange.Min = a.TileMin
	}
	if a.TileMax != 0 {
		cfg.HorizontalRange.Max = a.TileMax
	}
	if a.Sigma != 0 {
		cfg.Sigma = a.Sigma
	}
	if a.MinTileSize != 0 {
		cfg.MinTileSize = a.MinTileSize
	}
	if a.MaxCandidates != 0 {
		cfg.MaxCandidates = a.MaxCandidates
	}
	if a.CandidatePolicy != "" {
		cfg.CandidatePolicy = split.Policy(a.CandidatePolicy)
	}
	if a.UseEdgeMap != nil {
		cfg.UseEdgeMap = *a.UseEdgeMap
	}
	if err := cfg.Validate(); err != nil {
		return facade.Config{}, err
	}
	return cfg, nil
}

// segmenter builds a segmenter sharing the server's profile cache.
func (s *Server) segmenter(cfg facade.Config) (*facade.Segmenter, error) {
	opts := []facade.Option{facade.WithCache(s.profiles)}
	if s.debug {
		opts = append(opts, facade.WithObserver(facade.LogObserver(log.Default())))
	}
	return facade.NewSegmenter(cfg, opts...)
}

// segment runs the full pipeline on the image at path.
func (s *Server) segment(path string, overrides configArgs) (*facade.Result, image.Image, error) {
	cfg, err := overrides.apply(s.config)
	if err != nil {
		return nil, nil, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}
	seg, err := s.segmenter(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := seg.Segment(path, img)
	if err != nil {
		return nil, nil, err
	}
	return res, img, nil
}

// symmetryProfiles computes the symmetry profiles of path under cfg, on the raster
// cfg selects.
func (s *Server) symmetryProfiles(path string, cfg facade.Config) (symmetry.Profiles, error) {
	kind := imaging.RasterLuminance
	if cfg.UseEdgeMap {
		kind = imaging.RasterEdges
	}
	raster, err := s.cache.Raster(path, kind)
	if err != nil {
		return symmetry.Profiles{}, err
	}
	seg, err := s.segmenter(cfg)
	if err != nil {
		return symmetry.Profiles{}, err
	}
	return seg.Profiles(path, raster)
}

// === Image Access Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFacadeLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleFacadeEdgeMap(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	g, err := s.cache.Raster(a.Path, imaging.RasterEdges)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeEdgeMap(g)
}

// === Pipeline Stage Handlers ===

type symmetryProfileArgs struct {
	Path string `json:"path"`
	configArgs
}

type symmetryProfileResult struct {
	FloorHeight int              `json:"floor_height"`
	TileWidth   int              `json:"tile_width"`
	UseEdgeMap  bool             `json:"use_edge_map"`
	Vertical    symmetry.Profile `json:"vertical"`
	Horizontal  symmetry.Profile `json:"horizontal"`
}

func (s *Server) handleFacadeSymmetryProfile(args json.RawMessage) (interface{}, error) {
	var a symmetryProfileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	cfg, err := a.apply(s.config)
	if err != nil {
		return nil, err
	}
	p, err := s.symmetryProfiles(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	return &symmetryProfileResult{
		FloorHeight: symmetry.EstimateSpacing(p.Vertical.Offset, cfg.SpacingTolerance),
		TileWidth:   symmetry.EstimateSpacing(p.Horizontal.Offset, cfg.SpacingTolerance),
		UseEdgeMap:  cfg.UseEdgeMap,
		Vertical:    p.Vertical,
		Horizontal:  p.Horizontal,
	}, nil
}

type gradientProfileArgs struct {
	Path        string `json:"path"`
	FloorHeight int    `json:"floor_height"`
	configArgs
}

type gradientProfileResult struct {
	Sigma       float64   `json:"sigma"`
	FloorHeight int       `json:"floor_height"`
	Ver         []float64 `json:"ver"`
	Hor         []float64 `json:"hor"`
	RowMinima   []int     `json:"row_minima"`
	ColMinima   []int     `json:"col_minima"`
}

// handleFacadeGradientProfile computes Ver and Hor. The smoothing sigma is
// the explicit sigma, else floor_height times the sigma ratio, else derived
// from the estimated floor height.
func (s *Server) handleFacadeGradientProfile(args json.RawMessage) (interface{}, error) {
	var a gradientProfileArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	if a.FloorHeight < 0 {
		return nil, fmt.Errorf("%w: floor_height must be >= 0", errInvalidParams)
	}
	cfg, err := a.apply(s.config)
	if err != nil {
		return nil, err
	}

	floor := a.FloorHeight
	if floor == 0 && cfg.Sigma == 0 {
		p, err := s.symmetryProfiles(a.Path, cfg)
		if err != nil {
			return nil, err
		}
		floor = symmetry.EstimateSpacing(p.Vertical.Offset, cfg.SpacingTolerance)
	}

	lum, err := s.cache.Raster(a.Path, imaging.RasterLuminance)
	if err != nil {
		return nil, err
	}
	sigma := cfg.GradientSigma(floor)
	gf, err := symmetry.ComputeGradientField(lum, cfg.GradientOptions(sigma))
	if err != nil {
		return nil, err
	}
	return &gradientProfileResult{
		Sigma:       sigma,
		FloorHeight: floor,
		Ver:         gf.Ver,
		Hor:         gf.Hor,
		RowMinima:   split.Candidates(gf.Ver, split.DefaultRadius),
		ColMinima:   split.Candidates(gf.Hor, split.DefaultRadius),
	}, nil
}

type segmentArgs struct {
	Path            string `json:"path"`
	IncludeProfiles bool   `json:"include_profiles"`
	configArgs
}

func (s *Server) handleFacadeSegment(args json.RawMessage) (interface{}, error) {
	var a segmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	res, _, err := s.segment(a.Path, a.configArgs)
	if err != nil {
		return nil, err
	}
	if !a.IncludeProfiles {
		summary := *res
		summary.Profiles = symmetry.Profiles{}
		summary.Gradient = nil
		return &summary, nil
	}
	return res, nil
}

type irreducibleArgs struct {
	Path string `json:"path"`
	configArgs
}

func (s *Server) handleFacadeIrreducible(args json.RawMessage) (interface{}, error) {
	var a irreducibleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	res, _, err := s.segment(a.Path, a.configArgs)
	if err != nil {
		return nil, err
	}
	return render.Encode(res.Irreducible.Image(), len(res.RowSplits), len(res.ColSplits), 0)
}

// === Visualization Handlers ===

type renderStructureArgs struct {
	Path      string `json:"path"`
	Mode      string `json:"mode"`
	LineColor string `json:"line_color"`
	Labels    bool   `json:"labels"`
	configArgs
}

func (s *Server) handleFacadeRenderStructure(args json.RawMessage) (interface{}, error) {
	var a renderStructureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = "splits"
	}
	if a.Mode != "splits" && a.Mode != "tiles" {
		return nil, fmt.Errorf("%w: mode must be \"splits\" or \"tiles\", got %q", errInvalidParams, a.Mode)
	}
	if a.LineColor == "" {
		a.LineColor = render.DefaultLineColor
	}

	res, img, err := s.segment(a.Path, a.configArgs)
	if err != nil {
		return nil, err
	}

	var out *image.RGBA
	if a.Mode == "tiles" {
		out, err = render.Tiles(img, res.Tiles)
	} else {
		out, err = render.Structure(img, res.RowSplits, res.ColSplits, render.StructureOptions{
			LineColor: a.LineColor,
			Labels:    a.Labels,
		})
	}
	if err != nil {
		return nil, err
	}
	return render.Encode(out, len(res.RowSplits), len(res.ColSplits), len(res.Tiles.Tiles))
}

type profilePlotArgs struct {
	Path    string  `json:"path"`
	Profile string  `json:"profile"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	configArgs
}

type profilePlotResult struct {
	Profile     string `json:"profile"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Splits      []int  `json:"splits"`
}

// handleFacadeProfilePlot plots one of the four profiles with the chosen
// splits of its axis marked. Width and height are in inches.
func (s *Server) handleFacadeProfilePlot(args json.RawMessage) (interface{}, error) {
	var a profilePlotArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := requirePath(a.Path); err != nil {
		return nil, err
	}
	if a.Profile == "" {
		a.Profile = "vertical"
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("%w: width and height must be >= 0", errInvalidParams)
	}

	res, _, err := s.segment(a.Path, a.configArgs)
	if err != nil {
		return nil, err
	}

	var (
		p      *plot.Plot
		splits []int
	)
	switch a.Profile {
	case "vertical":
		splits = res.RowSplits
		p, err = render.SymmetryPlot("Vertical symmetry", "row", res.Profiles.Vertical, splits)
	case "horizontal":
		splits = res.ColSplits
		p, err = render.SymmetryPlot("Horizontal symmetry", "column", res.Profiles.Horizontal, splits)
	case "ver":
		splits = res.RowSplits
		p, _, err = render.GradientPlot(res.Gradient, res.RowSplits, res.ColSplits)
	case "hor":
		splits = res.ColSplits
		_, p, err = render.GradientPlot(res.Gradient, res.RowSplits, res.ColSplits)
	default:
		return nil, fmt.Errorf("%w: profile must be vertical, horizontal, ver or hor, got %q", errInvalidParams, a.Profile)
	}
	if err != nil {
		return nil, err
	}

	data, err := render.EncodePlot(p, vg.Length(a.Width)*vg.Inch, vg.Length(a.Height)*vg.Inch)
	if err != nil {
		return nil, err
	}
	return &profilePlotResult{
		Profile:     a.Profile,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		Splits:      splits,
	}, nil
}
