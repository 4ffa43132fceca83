package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/image-pipeline/internal/imaging"
	"github.com/ironsheep/image-pipeline/internal/loader"
	"github.com/ironsheep/image-pipeline/internal/pipeline"
	"github.com/ironsheep/image-pipeline/internal/stats"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_apply").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Debug("tool failed", "tool", params.Name, "error", err)
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
//  3. Looks images up in the store
//  4. Calls the imaging, stats or pipeline function
//  5. Stores derived images and returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	// Image store
	case "image_load":
		return s.handleImageLoad(args)
	case "image_blank":
		return s.handleImageBlank(args)
	case "image_info":
		return s.handleImageInfo(args)
	case "image_log":
		return s.handleImageLog(args)
	case "image_list":
		return s.handleImageList(args)
	case "image_delete":
		return s.handleImageDelete(args)
	case "image_export":
		return s.handleImageExport(args)

	// Processing
	case "image_operations":
		return s.handleImageOperations(args)
	case "image_apply":
		return s.handleImageApply(args)
	case "image_run":
		return s.handleImageRun(ctx, args)
	case "image_load_lut":
		return s.handleImageLoadLUT(args)
	case "image_grid":
		return s.handleImageGrid(args)

	// Statistics
	case "image_neighborhood":
		return s.handleImageNeighborhood(args)
	case "image_line_profile":
		return s.handleImageLineProfile(args)
	case "image_histogram":
		return s.handleImageHistogram(args)
	case "image_projection":
		return s.handleImageProjection(args)
	case "image_pixel_get":
		return s.handleImagePixelGet(args)
	case "image_pixel_set":
		return s.handleImagePixelSet(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)

	// Measurement
	case "image_measure":
		return s.handleImageMeasure(args)
	case "image_compare_regions":
		return s.handleImageCompareRegions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response.
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

// mustMarshalJSON marshals v to indented JSON, or returns an error object
// as JSON if marshaling fails.
func mustMarshalJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal result: %s"}`, err.Error())
	}
	return string(data)
}

// ImageSummary describes a stored image.
type ImageSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Channels int    `json:"channels"`
	// LastEntry is the newest processing log entry.
	LastEntry string `json:"last_entry"`
	// Evicted lists ids dropped from the store to make room.
	Evicted []string `json:"evicted,omitempty"`
}

func summarize(id string, img *imaging.Image) *ImageSummary {
	return &ImageSummary{
		ID:        id,
		Name:      img.Name(),
		Kind:      img.Kind().String(),
		Width:     img.Width(),
		Height:    img.Height(),
		Channels:  img.Channels(),
		LastEntry: img.Log().Last(),
	}
}

func (s *Server) put(img *imaging.Image) *ImageSummary {
	id, evicted := s.store.Put(img)
	if len(evicted) > 0 {
		s.log.Debug("evicted images", "ids", evicted)
	}
	sum := summarize(id, img)
	sum.Evicted = evicted
	return sum
}

type idArgs struct {
	ID string `json:"id"`
}

func (s *Server) lookup(args json.RawMessage, dst interface{}, id func() string) (*imaging.Image, error) {
	if err := json.Unmarshal(args, dst); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return s.store.Get(id())
}

func (s *Server) chart(render func(w, h int) ([]byte, error)) (string, error) {
	data, err := render(s.render.ChartWidth, s.render.ChartHeight)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func regionOrWhole(r *imaging.Region) imaging.Region {
	if r == nil {
		return imaging.Region{}
	}
	return *r
}

// Image store handlers

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var p struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	info, err := imaging.LoadImageInfo(s.cache, p.Path)
	if err != nil {
		return nil, err
	}
	cached, err := s.cache.Load(p.Path)
	if err != nil {
		return nil, err
	}
	// The cache hands out shared images; the store needs its own buffer
	// because image_pixel_set writes in place.
	img := imaging.Derive(cached, cached.Kind(), cached.Buffer(), fmt.Sprintf("load(format=%s)", info.Format))

	return struct {
		*ImageSummary
		Format        string `json:"format"`
		FileSizeBytes int64  `json:"file_size_bytes"`
	}{s.put(img), info.Format, info.FileSizeBytes}, nil
}

func (s *Server) handleImageBlank(args json.RawMessage) (interface{}, error) {
	p := struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Color  string `json:"color"`
	}{Color: "#000000"}
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	fill, err := imaging.ParseHexColor(p.Color)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Blank(p.Width, p.Height, fill, "blank")
	if err != nil {
		return nil, err
	}
	return s.put(img), nil
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var p idArgs
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	return summarize(p.ID, img), nil
}

func (s *Server) handleImageLog(args json.RawMessage) (interface{}, error) {
	var p idArgs
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":      p.ID,
		"entries": img.Log().Entries(),
	}, nil
}

func (s *Server) handleImageList(args json.RawMessage) (interface{}, error) {
	ids := s.store.IDs()
	images := make([]*ImageSummary, 0, len(ids))
	for _, id := range ids {
		img, err := s.store.Get(id)
		if err != nil {
			// deleted concurrently
			continue
		}
		images = append(images, summarize(id, img))
	}
	return map[string]interface{}{"images": images}, nil
}

func (s *Server) handleImageDelete(args json.RawMessage) (interface{}, error) {
	var p idArgs
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if !s.store.Delete(p.ID) {
		return nil, fmt.Errorf("%w: unknown image id %q", imaging.ErrInvalidArgument, p.ID)
	}
	return map[string]interface{}{"deleted": p.ID}, nil
}

func (s *Server) handleImageExport(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID     string `json:"id"`
		Path   string `json:"path"`
		Format string `json:"format"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	if p.Path != "" {
		if err := imaging.Save(img, p.Path); err != nil {
			return nil, err
		}
		return map[string]interface{}{"id": p.ID, "path": p.Path}, nil
	}
	data, mime, err := imaging.EncodeBase64(img, p.Format)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":          p.ID,
		"mime_type":   mime,
		"data_base64": data,
	}, nil
}

// Processing handlers

func (s *Server) handleImageOperations(args json.RawMessage) (interface{}, error) {
	type opInfo struct {
		Name     string `json:"name"`
		Summary  string `json:"summary"`
		Operands int    `json:"operands"`
		Optional int    `json:"optional_operands,omitempty"`
	}
	ops := s.runner.Registry.Ops()
	out := make([]opInfo, len(ops))
	for i, op := range ops {
		out[i] = opInfo{Name: op.Name, Summary: op.Summary, Operands: op.Operands, Optional: op.Optional}
	}
	return map[string]interface{}{"operations": out}, nil
}

// withRenderDefaults fills label_size for the drawing operations from the
// render configuration when the caller left it out.
func (s *Server) withRenderDefaults(op string, params pipeline.Params) pipeline.Params {
	if op != "grid" && op != "labeling_overlay" {
		return params
	}
	if _, ok := params["label_size"]; ok {
		return params
	}
	out := make(pipeline.Params, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out["label_size"] = s.render.LabelFontSize
	return out
}

func (s *Server) handleImageApply(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID      string          `json:"id"`
		Op      string          `json:"op"`
		Params  pipeline.Params `json:"params"`
		WithIDs []string        `json:"with_ids"`
	}
	src, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	operands := make([]*imaging.Image, 0, len(p.WithIDs))
	for _, id := range p.WithIDs {
		img, err := s.store.Get(id)
		if err != nil {
			return nil, err
		}
		operands = append(operands, img)
	}

	out, err := s.runner.Registry.Apply(p.Op, src, operands, s.withRenderDefaults(p.Op, p.Params))
	if err != nil {
		return nil, err
	}
	return struct {
		*ImageSummary
		Extra interface{} `json:"extra,omitempty"`
	}{s.put(out.Image), out.Extra}, nil
}

func (s *Server) handleImageRun(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var p struct {
		ID         string           `json:"id"`
		Recipe     *pipeline.Recipe `json:"recipe"`
		RecipePath string           `json:"recipe_path"`
	}
	src, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}

	recipe := p.Recipe
	switch {
	case recipe != nil:
		if len(recipe.Steps) == 0 {
			return nil, fmt.Errorf("%w: recipe has no steps", imaging.ErrFormat)
		}
	case p.RecipePath != "":
		if recipe, err = pipeline.LoadRecipe(p.RecipePath); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: recipe or recipe_path is required", imaging.ErrInvalidArgument)
	}
	for i := range recipe.Steps {
		recipe.Steps[i].Params = s.withRenderDefaults(recipe.Steps[i].Op, recipe.Steps[i].Params)
	}

	res, err := s.runner.Run(ctx, src, recipe)
	if err != nil {
		return nil, err
	}
	return struct {
		*ImageSummary
		Steps []pipeline.StepResult `json:"steps"`
	}{s.put(res.Image), res.Steps}, nil
}

func (s *Server) handleImageLoadLUT(args json.RawMessage) (interface{}, error) {
	var p struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	doc, err := loader.Load(p.Path)
	if err != nil {
		return nil, err
	}
	switch doc.Kind {
	case loader.KindLookupTable:
		table := make([]int, len(doc.LUT.Table))
		for i, v := range doc.LUT.Table {
			table[i] = int(v)
		}
		return map[string]interface{}{
			"kind":        doc.Kind,
			"name":        doc.LUT.Name,
			"description": doc.LUT.Description,
			"table":       table,
		}, nil
	default:
		return map[string]interface{}{
			"kind":        doc.Kind,
			"name":        doc.Filter.Name,
			"description": doc.Filter.Description,
			"multiplier":  doc.Filter.Multiplier,
			"divisor":     doc.Filter.Divisor,
			"offset":      doc.Filter.Offset,
			"kernel":      doc.Filter.Kernel,
		}, nil
	}
}

func (s *Server) handleImageGrid(args json.RawMessage) (interface{}, error) {
	p := struct {
		ID              string `json:"id"`
		GridSpacing     int    `json:"grid_spacing"`
		ShowCoordinates bool   `json:"show_coordinates"`
		GridColor       string `json:"grid_color"`
	}{GridSpacing: 50, ShowCoordinates: true, GridColor: "#FF000080"}
	src, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	img, err := imaging.GridOverlay(src, p.GridSpacing, p.ShowCoordinates, p.GridColor, s.render.LabelFontSize)
	if err != nil {
		return nil, err
	}
	return s.put(img), nil
}

// Statistics handlers

func (s *Server) handleImageNeighborhood(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID     string `json:"id"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Radius int    `json:"radius"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	return stats.Neighborhood(img, p.X, p.Y, p.Radius)
}

func (s *Server) handleImageLineProfile(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID    string `json:"id"`
		X1    int    `json:"x1"`
		Y1    int    `json:"y1"`
		X2    int    `json:"x2"`
		Y2    int    `json:"y2"`
		Chart bool   `json:"chart"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	res, err := stats.LineProfile(img, imaging.Point{X: p.X1, Y: p.Y1}, imaging.Point{X: p.X2, Y: p.Y2})
	if err != nil {
		return nil, err
	}
	if !p.Chart {
		return res, nil
	}
	png, err := s.chart(func(w, h int) ([]byte, error) { return stats.RenderProfilePNG(res, w, h) })
	if err != nil {
		return nil, err
	}
	return struct {
		*stats.ProfileResult
		Chart string `json:"chart_png_base64"`
	}{res, png}, nil
}

func (s *Server) handleImageHistogram(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID     string          `json:"id"`
		Region *imaging.Region `json:"region"`
		Chart  bool            `json:"chart"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	res, err := stats.Histogram(img, regionOrWhole(p.Region))
	if err != nil {
		return nil, err
	}
	if !p.Chart {
		return res, nil
	}
	png, err := s.chart(func(w, h int) ([]byte, error) { return stats.RenderHistogramPNG(res, w, h) })
	if err != nil {
		return nil, err
	}
	return struct {
		*stats.HistogramResult
		Chart string `json:"chart_png_base64"`
	}{res, png}, nil
}

func (s *Server) handleImageProjection(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID     string          `json:"id"`
		Axis   string          `json:"axis"`
		Region *imaging.Region `json:"region"`
		Chart  bool            `json:"chart"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	axis, err := stats.ParseAxis(p.Axis)
	if err != nil {
		return nil, err
	}
	res, err := stats.Projection(img, regionOrWhole(p.Region), axis)
	if err != nil {
		return nil, err
	}
	if !p.Chart {
		return res, nil
	}
	png, err := s.chart(func(w, h int) ([]byte, error) { return stats.RenderProjectionPNG(res, w, h) })
	if err != nil {
		return nil, err
	}
	return struct {
		*stats.ProjectionResult
		Chart string `json:"chart_png_base64"`
	}{res, png}, nil
}

func (s *Server) handleImagePixelGet(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID string `json:"id"`
		X  int    `json:"x"`
		Y  int    `json:"y"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, p.X, p.Y)
}

func (s *Server) handleImagePixelSet(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID     string `json:"id"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Values []int  `json:"values"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	values := make([]uint8, len(p.Values))
	for i, v := range p.Values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: pixel value %d out of range", imaging.ErrInvalidArgument, v)
		}
		values[i] = uint8(v)
	}
	if err := img.Set(p.X, p.Y, values...); err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, p.X, p.Y)
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	p := struct {
		ID     string          `json:"id"`
		Count  int             `json:"count"`
		Region *imaging.Region `json:"region"`
	}{Count: 5}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	rect := img.Bounds()
	if p.Region != nil {
		if rect, err = p.Region.Clip(img.Width(), img.Height()); err != nil {
			return nil, err
		}
	}
	colors, err := imaging.DominantColors(img, p.Count, rect)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"colors":       colors,
		"total_pixels": rect.Dx() * rect.Dy(),
	}, nil
}

// Measurement handlers

// MeasureResult holds the distances between consecutive points and their
// alignment.
type MeasureResult struct {
	Distances []*imaging.DistanceResult `json:"distances"`
	Alignment *imaging.AlignmentResult  `json:"alignment"`
}

func (s *Server) handleImageMeasure(args json.RawMessage) (interface{}, error) {
	p := struct {
		ID        string          `json:"id"`
		Points    []imaging.Point `json:"points"`
		Tolerance int             `json:"tolerance"`
	}{Tolerance: 5}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	if len(p.Points) < 2 {
		return nil, fmt.Errorf("%w: at least 2 points are required", imaging.ErrInvalidArgument)
	}
	res := &MeasureResult{Distances: make([]*imaging.DistanceResult, 0, len(p.Points)-1)}
	for i := 1; i < len(p.Points); i++ {
		d, err := imaging.MeasureDistance(img, p.Points[i-1], p.Points[i])
		if err != nil {
			return nil, err
		}
		res.Distances = append(res.Distances, d)
	}
	res.Alignment = imaging.CheckAlignment(p.Points, p.Tolerance)
	return res, nil
}

func (s *Server) handleImageCompareRegions(args json.RawMessage) (interface{}, error) {
	var p struct {
		ID      string         `json:"id"`
		Region1 imaging.Region `json:"region1"`
		Region2 imaging.Region `json:"region2"`
	}
	img, err := s.lookup(args, &p, func() string { return p.ID })
	if err != nil {
		return nil, err
	}
	return imaging.CompareRegions(img, p.Region1, p.Region2)
}
