package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/image-pipeline/internal/detection"
	"github.com/ironsheep/image-pipeline/internal/filter"
	"github.com/ironsheep/image-pipeline/internal/frequency"
	"github.com/ironsheep/image-pipeline/internal/imaging"
	"github.com/ironsheep/image-pipeline/internal/labeling"
	"github.com/ironsheep/image-pipeline/internal/loader"
)

// unary adapts a parameterless single-image transform.
func unary(fn func(*imaging.Image) (*imaging.Image, error)) Func {
	return func(in []*imaging.Image, p Params) (*Output, error) {
		if len(p) > 0 {
			return nil, fmt.Errorf("%w: operation takes no parameters", imaging.ErrInvalidArgument)
		}
		return image1(fn(in[0]))
	}
}

// withParams decodes P (starting from defaults) and hands it to fn.
func withParams[P any](name string, defaults P, fn func(in []*imaging.Image, p P) (*Output, error)) Func {
	return func(in []*imaging.Image, raw Params) (*Output, error) {
		p := defaults
		if err := decode(name, raw, &p); err != nil {
			return nil, err
		}
		return fn(in, p)
	}
}

func image1(img *imaging.Image, err error) (*Output, error) {
	if err != nil {
		return nil, err
	}
	return &Output{Image: img}, nil
}

type codeParams struct {
	Code string `param:"code"`
}

type paletteParams struct {
	Colors []string `param:"colors"`
}

type colorMapParams struct {
	Name string `param:"name"`
}

type cropParams struct {
	X1 int `param:"x1"`
	Y1 int `param:"y1"`
	X2 int `param:"x2"`
	Y2 int `param:"y2"`
}

type quadrantParams struct {
	Region string `param:"region"`
}

type claheParams struct {
	Clip  float64 `param:"clip"`
	Tiles int     `param:"tiles"`
}

type alphaBetaParams struct {
	Alpha float64 `param:"alpha"`
	Beta  float64 `param:"beta"`
}

type stretchParams struct {
	Lo float64 `param:"lo"`
	Hi float64 `param:"hi"`
}

type meanStdParams struct {
	Mean float64 `param:"mean"`
	Std  float64 `param:"std"`
}

type gammaParams struct {
	Gamma float64 `param:"gamma"`
}

type posterizeParams struct {
	Levels int `param:"levels"`
}

type shadingParams struct {
	Offset     float64 `param:"offset"`
	Multiplier float64 `param:"multiplier"`
}

type combineParams struct {
	Op string `param:"op"`
}

type ksizeParams struct {
	KSize int `param:"ksize"`
}

type morphParams struct {
	KSize      int `param:"ksize"`
	Iterations int `param:"iterations"`
}

type overlayParams struct {
	Color string `param:"color"`
}

type labelingParams struct {
	MinSize      int     `param:"min_size"`
	Connectivity int     `param:"connectivity"`
	Color        string  `param:"color"`
	LabelSize    float64 `param:"label_size"`
}

// LabelingExtra is the measurement part of a labeling result.
type LabelingExtra struct {
	Num       int                 `json:"num"`
	Stats     []labeling.Stat     `json:"stats"`
	Centroids []labeling.Centroid `json:"centroids"`
}

// ThresholdExtra reports the threshold a global binarization used.
type ThresholdExtra struct {
	Threshold float64 `json:"threshold"`
}

func builtins() []Op {
	ops := []Op{
		// Colorspace and geometry
		{Name: "grayscale", Summary: "BT.601 luma of a Color image", Fn: unary(imaging.Grayscale)},
		{Name: "extract", Summary: "one colorspace plane, e.g. code=HSV_H", Fn: withParams("extract", codeParams{},
			func(in []*imaging.Image, p codeParams) (*Output, error) {
				return image1(imaging.Extract(in[0], p.Code))
			})},
		{Name: "monotone", Summary: "black to tint to white gradient map", Fn: withParams("monotone",
			overlayParams{Color: "#FFFFFF"},
			func(in []*imaging.Image, p overlayParams) (*Output, error) {
				tint, err := imaging.ParseHexColor(p.Color)
				if err != nil {
					return nil, err
				}
				return image1(imaging.Monotone(in[0], tint))
			})},
		{Name: "palette", Summary: "nearest palette color in Lab", Fn: withParams("palette", paletteParams{},
			func(in []*imaging.Image, p paletteParams) (*Output, error) {
				colors := make([]color.Color, 0, len(p.Colors))
				for _, s := range p.Colors {
					c, err := imaging.ParseHexColor(s)
					if err != nil {
						return nil, err
					}
					colors = append(colors, c)
				}
				return image1(imaging.Palette(in[0], colors))
			})},
		{Name: "color_map", Summary: "false-color map: jet, hot, cool, bone, viridis, rainbow", Fn: withParams("color_map", colorMapParams{Name: "jet"},
			func(in []*imaging.Image, p colorMapParams) (*Output, error) {
				return image1(imaging.ApplyColorMap(in[0], p.Name))
			})},
		{Name: "resize", Summary: "scale by fx, fy", Fn: withParams("resize", resizeParams{FX: 1, FY: 1, Interpolation: "linear"}, resize)},
		{Name: "crop", Summary: "rectangle x1,y1 to exclusive x2,y2", Fn: withParams("crop", cropParams{},
			func(in []*imaging.Image, p cropParams) (*Output, error) {
				return image1(imaging.Crop(in[0], image.Rect(p.X1, p.Y1, p.X2, p.Y2)))
			})},
		{Name: "crop_quadrant", Summary: "named region such as top-left or center", Fn: withParams("crop_quadrant", quadrantParams{},
			func(in []*imaging.Image, p quadrantParams) (*Output, error) {
				return image1(imaging.CropQuadrant(in[0], p.Region))
			})},
		{Name: "grid", Summary: "coordinate grid overlay", Fn: withParams("grid", gridParams{Spacing: 50, Color: "#FF000080", LabelSize: 10}, grid)},

		// Thresholding
		{Name: "threshold", Summary: "global binarization: fixed, otsu, triangle", Fn: withParams("threshold", thresholdParams{Value: 127, Method: "fixed"}, threshold)},
		{Name: "adaptive_threshold", Summary: "local mean or gaussian binarization", Fn: withParams("adaptive_threshold",
			adaptiveParams{Block: 11, C: 2, Method: "mean"},
			func(in []*imaging.Image, p adaptiveParams) (*Output, error) {
				return image1(filter.AdaptiveThreshold(in[0], p.Block, p.C, filter.AdaptiveMethod(p.Method)))
			})},

		// Tone curves
		{Name: "equalize_hist", Summary: "histogram equalization of luma", Fn: unary(filter.EqualizeHist)},
		{Name: "clahe", Summary: "contrast-limited adaptive equalization", Fn: withParams("clahe", claheParams{Clip: 2, Tiles: 8},
			func(in []*imaging.Image, p claheParams) (*Output, error) {
				return image1(filter.CLAHE(in[0], p.Clip, p.Tiles))
			})},
		{Name: "normalize", Summary: "min-max stretch to [alpha, beta]", Fn: withParams("normalize", alphaBetaParams{Alpha: 0, Beta: 255},
			func(in []*imaging.Image, p alphaBetaParams) (*Output, error) {
				return image1(filter.Normalize(in[0], p.Alpha, p.Beta))
			})},
		{Name: "linear_stretch", Summary: "map [lo, hi] to [0, 255]", Fn: withParams("linear_stretch", stretchParams{Lo: 0, Hi: 255},
			func(in []*imaging.Image, p stretchParams) (*Output, error) {
				return image1(filter.LinearStretch(in[0], p.Lo, p.Hi))
			})},
		{Name: "expand", Summary: "stretch the image's own min and max to [0, 255]", Fn: unary(filter.Expand)},
		{Name: "contrast_brightness", Summary: "alpha*v + beta", Fn: withParams("contrast_brightness", alphaBetaParams{Alpha: 1, Beta: 0},
			func(in []*imaging.Image, p alphaBetaParams) (*Output, error) {
				return image1(filter.ContrastBrightness(in[0], p.Alpha, p.Beta))
			})},
		{Name: "mean_std_remap", Summary: "remap to a target mean and std", Fn: withParams("mean_std_remap", meanStdParams{Mean: 128, Std: 32},
			func(in []*imaging.Image, p meanStdParams) (*Output, error) {
				return image1(filter.MeanStdRemap(in[0], p.Mean, p.Std))
			})},
		{Name: "brightness_invert", Summary: "invert luma only", Fn: unary(filter.BrightnessInvert)},
		{Name: "invert", Summary: "invert every channel", Fn: unary(filter.Invert)},
		{Name: "gamma", Summary: "gamma curve; g > 1 brightens", Fn: withParams("gamma", gammaParams{Gamma: 1},
			func(in []*imaging.Image, p gammaParams) (*Output, error) {
				return image1(filter.Gamma(in[0], p.Gamma))
			})},
		{Name: "posterize", Summary: "reduce luma to n levels", Fn: withParams("posterize", posterizeParams{Levels: 4},
			func(in []*imaging.Image, p posterizeParams) (*Output, error) {
				return image1(filter.Posterize(in[0], p.Levels))
			})},
		{Name: "apply_lut", Summary: "lookup table from a lookup_table document", Fn: withParams("apply_lut", fileParams{}, applyLUT)},

		// Spatial filters
		{Name: "blur", Summary: "box blur", Fn: withParams("blur", ksizeParams{KSize: 3}, ksizeOp(filter.Blur))},
		{Name: "median_blur", Summary: "median filter", Fn: withParams("median_blur", ksizeParams{KSize: 3}, ksizeOp(filter.MedianBlur))},
		{Name: "gaussian_blur", Summary: "gaussian blur; sigma <= 0 derives it from ksize", Fn: withParams("gaussian_blur",
			gaussianParams{KSize: 5},
			func(in []*imaging.Image, p gaussianParams) (*Output, error) {
				return image1(filter.GaussianBlur(in[0], p.KSize, p.Sigma))
			})},
		{Name: "unsharp", Summary: "unsharp mask", Fn: withParams("unsharp",
			unsharpParams{KSize: 5, Amount: 1},
			func(in []*imaging.Image, p unsharpParams) (*Output, error) {
				return image1(filter.Unsharp(in[0], p.KSize, p.Amount))
			})},
		{Name: "bilateral", Summary: "edge-aware smoothing", Fn: withParams("bilateral",
			bilateralParams{D: 9, SigmaColor: 75, SigmaSpace: 75},
			func(in []*imaging.Image, p bilateralParams) (*Output, error) {
				return image1(filter.Bilateral(in[0], p.D, p.SigmaColor, p.SigmaSpace))
			})},
		{Name: "edge_preserving", Summary: "recursive domain-transform smoothing", Fn: withParams("edge_preserving",
			domainParams{SigmaS: 60, SigmaR: 0.4},
			func(in []*imaging.Image, p domainParams) (*Output, error) {
				if p.Amount != 0 {
					return nil, fmt.Errorf("%w: edge_preserving takes no amount", imaging.ErrInvalidArgument)
				}
				return image1(filter.EdgePreserving(in[0], p.SigmaS, p.SigmaR))
			})},
		{Name: "detail_enhance", Summary: "boost detail over a domain-transform base", Fn: withParams("detail_enhance",
			domainParams{SigmaS: 10, SigmaR: 0.15, Amount: 2},
			func(in []*imaging.Image, p domainParams) (*Output, error) {
				return image1(filter.DetailEnhance(in[0], p.SigmaS, p.SigmaR, p.Amount))
			})},

		// Derivatives and kernels
		{Name: "sobel", Summary: "Sobel derivative of luma", Fn: withParams("sobel",
			sobelParams{DX: 1, KSize: 3, Offset: filter.DefaultDerivativeOffset},
			func(in []*imaging.Image, p sobelParams) (*Output, error) {
				return image1(filter.Sobel(in[0], p.DX, p.DY, p.KSize, p.Offset))
			})},
		{Name: "laplacian", Summary: "Laplacian of luma", Fn: withParams("laplacian",
			sobelParams{KSize: 1, Offset: filter.DefaultDerivativeOffset},
			func(in []*imaging.Image, p sobelParams) (*Output, error) {
				if p.DX != 0 || p.DY != 0 {
					return nil, fmt.Errorf("%w: laplacian takes no dx/dy", imaging.ErrInvalidArgument)
				}
				return image1(filter.Laplacian(in[0], p.KSize, p.Offset))
			})},
		{Name: "filter2d", Summary: "convolve with an inline kernel or a 2D_filter document", Fn: withParams("filter2d",
			filter2DParams{Multiplier: 1, Divisor: 1}, filter2D)},
		{Name: "canny", Summary: "Canny edges", Fn: withParams("canny",
			cannyParams{Low: detection.DefaultCannyLow, High: detection.DefaultCannyHigh},
			func(in []*imaging.Image, p cannyParams) (*Output, error) {
				return image1(filter.Canny(in[0], p.Low, p.High))
			})},

		// Morphology
		{Name: "erode", Summary: "minimum filter", Fn: withParams("erode", morphParams{KSize: 3, Iterations: 1},
			func(in []*imaging.Image, p morphParams) (*Output, error) {
				return image1(filter.Erode(in[0], p.KSize, p.Iterations))
			})},
		{Name: "dilate", Summary: "maximum filter", Fn: withParams("dilate", morphParams{KSize: 3, Iterations: 1},
			func(in []*imaging.Image, p morphParams) (*Output, error) {
				return image1(filter.Dilate(in[0], p.KSize, p.Iterations))
			})},
		{Name: "morphology", Summary: "open, close, gradient, tophat, blackhat, erode, dilate", Fn: withParams("morphology",
			morphologyParams{Op: "open", KSize: 3, Iterations: 1},
			func(in []*imaging.Image, p morphologyParams) (*Output, error) {
				op, err := filter.ParseMorphOp(p.Op)
				if err != nil {
					return nil, err
				}
				return image1(filter.Morphology(in[0], op, p.KSize, p.Iterations))
			})},
		{Name: "morph_edge", Summary: "dilated minus eroded", Fn: withParams("morph_edge",
			morphEdgeParams{KSize: 3, Dilate: 1, Erode: 1},
			func(in []*imaging.Image, p morphEdgeParams) (*Output, error) {
				return image1(filter.MorphEdge(in[0], p.KSize, p.Dilate, p.Erode))
			})},

		// Binary clean-up
		{Name: "thinning", Summary: "Zhang-Suen skeleton of a Binary image", Fn: unary(filter.Thinning)},
		{Name: "remove_isolated_white", Summary: "clear white pixels with no white neighbor", Fn: unary(filter.RemoveIsolatedWhite)},
		{Name: "remove_isolated_black", Summary: "fill black pixels with no black neighbor", Fn: unary(filter.RemoveIsolatedBlack)},

		// Shading correction
		{Name: "shading_subtract", Summary: "src - black + offset", Operands: 1, Fn: withParams("shading_subtract", shadingParams{},
			func(in []*imaging.Image, p shadingParams) (*Output, error) {
				if p.Multiplier != 0 {
					return nil, fmt.Errorf("%w: shading_subtract takes no multiplier", imaging.ErrInvalidArgument)
				}
				return image1(filter.ShadingSubtract(in[0], in[1], p.Offset))
			})},
		{Name: "shading_white_black", Summary: "(src-black)/(white-black)*multiplier; operands white, black", Operands: 2, Fn: withParams("shading_white_black", shadingParams{Multiplier: 255},
			func(in []*imaging.Image, p shadingParams) (*Output, error) {
				if p.Offset != 0 {
					return nil, fmt.Errorf("%w: shading_white_black takes no offset", imaging.ErrInvalidArgument)
				}
				return image1(filter.ShadingWhiteBlack(in[0], in[1], in[2], p.Multiplier))
			})},
		{Name: "shading_local_mean", Summary: "divide by the local mean", Fn: withParams("shading_local_mean", ksizeParams{KSize: 31}, ksizeOp(filter.ShadingLocalMean))},
		{Name: "shading_black_hat", Summary: "255 - blackhat", Fn: withParams("shading_black_hat", ksizeParams{KSize: 31}, ksizeOp(filter.ShadingBlackHat))},

		// Two images
		{Name: "combine", Summary: "add, sub, absdiff, and, or, xor, min, max, blend", Operands: 1, Fn: withParams("combine", combineParams{Op: "add"},
			func(in []*imaging.Image, p combineParams) (*Output, error) {
				op, err := filter.ParseCombineOp(p.Op)
				if err != nil {
					return nil, err
				}
				return image1(filter.Combine(in[0], in[1], op))
			})},

		// Frequency domain
		{Name: "dft", Summary: "forward DFT; result carries the spectrum", Fn: unary(frequency.Forward)},
		{Name: "idft", Summary: "inverse DFT with an optional mask operand", Optional: 1, Fn: func(in []*imaging.Image, p Params) (*Output, error) {
			if len(p) > 0 {
				return nil, fmt.Errorf("%w: idft takes no parameters", imaging.ErrInvalidArgument)
			}
			var mask *imaging.Image
			if len(in) > 1 {
				mask = in[1]
			}
			return image1(frequency.Inverse(in[0], mask))
		}},

		// Labeling
		{Name: "labeling_paint", Summary: "color each component larger than min_size", Fn: withParams("labeling_paint",
			labelingParams{Connectivity: 8}, labelingOp(false))},
		{Name: "labeling_overlay", Summary: "box and number each component larger than min_size", Fn: withParams("labeling_overlay",
			labelingParams{Connectivity: 8, LabelSize: 12}, labelingOp(true))},

		// Detection
		{Name: "hough_lines", Summary: "normal-form lines of a Binary image", Fn: withParams("hough_lines",
			houghParams{Rho: 1, Theta: math.Pi / 180, Threshold: 100}, houghLines)},
		{Name: "hough_segments", Summary: "line segments", Fn: withParams("hough_segments",
			houghParams{Rho: 1, Theta: math.Pi / 180, Threshold: 50, MinLength: 30, MaxGap: 5}, houghSegments)},
		{Name: "hough_circles", Summary: "circles by gradient voting", Fn: withParams("hough_circles",
			circleParams{MinDist: 20, Canny: 100, Votes: 30}, houghCircles)},
		{Name: "contours", Summary: "borders of white regions: external or tree", Fn: withParams("contours",
			contourParams{Mode: "external"}, contours)},
		{Name: "rectangles", Summary: "rectangular outlines", Fn: withParams("rectangles",
			rectParams{MinArea: 100, Tolerance: 0.8}, rectangles)},
	}
	return ops
}

type resizeParams struct {
	FX            float64 `param:"fx"`
	FY            float64 `param:"fy"`
	Interpolation string  `param:"interpolation"`
}

func resize(in []*imaging.Image, p resizeParams) (*Output, error) {
	interp, err := imaging.ParseInterpolation(p.Interpolation)
	if err != nil {
		return nil, err
	}
	return image1(imaging.Resize(in[0], p.FX, p.FY, interp))
}

type gridParams struct {
	Spacing         int     `param:"spacing"`
	ShowCoordinates bool    `param:"show_coordinates"`
	Color           string  `param:"color"`
	LabelSize       float64 `param:"label_size"`
}

func grid(in []*imaging.Image, p gridParams) (*Output, error) {
	return image1(imaging.GridOverlay(in[0], p.Spacing, p.ShowCoordinates, p.Color, p.LabelSize))
}

type thresholdParams struct {
	Value  float64 `param:"value"`
	Method string  `param:"method"`
}

func threshold(in []*imaging.Image, p thresholdParams) (*Output, error) {
	method, err := filter.ParseThresholdMethod(p.Method)
	if err != nil {
		return nil, err
	}
	res, err := filter.Threshold(in[0], p.Value, method)
	if err != nil {
		return nil, err
	}
	return &Output{Image: res.Image, Extra: ThresholdExtra{Threshold: res.Threshold}}, nil
}

type adaptiveParams struct {
	Block  int     `param:"block"`
	C      float64 `param:"c"`
	Method string  `param:"method"`
}

func ksizeOp(fn func(*imaging.Image, int) (*imaging.Image, error)) func([]*imaging.Image, ksizeParams) (*Output, error) {
	return func(in []*imaging.Image, p ksizeParams) (*Output, error) {
		return image1(fn(in[0], p.KSize))
	}
}

type fileParams struct {
	File string `param:"file"`
}

func applyLUT(in []*imaging.Image, p fileParams) (*Output, error) {
	if p.File == "" {
		return nil, fmt.Errorf("%w: apply_lut needs a file", imaging.ErrInvalidArgument)
	}
	doc, err := loader.Load(p.File)
	if err != nil {
		return nil, err
	}
	if doc.LUT == nil {
		return nil, fmt.Errorf("%w: %s is a %s document, not a lookup table", imaging.ErrFormat, p.File, doc.Kind)
	}
	return image1(doc.LUT.Apply(in[0]))
}

type gaussianParams struct {
	KSize int     `param:"ksize"`
	Sigma float64 `param:"sigma"`
}

type unsharpParams struct {
	KSize  int     `param:"ksize"`
	Amount float64 `param:"amount"`
}

type bilateralParams struct {
	D          int     `param:"d"`
	SigmaColor float64 `param:"sigma_color"`
	SigmaSpace float64 `param:"sigma_space"`
}

type domainParams struct {
	SigmaS float64 `param:"sigma_s"`
	SigmaR float64 `param:"sigma_r"`
	Amount float64 `param:"amount"`
}

type sobelParams struct {
	DX     int     `param:"dx"`
	DY     int     `param:"dy"`
	KSize  int     `param:"ksize"`
	Offset float64 `param:"offset"`
}

type filter2DParams struct {
	File       string      `param:"file"`
	Kernel     [][]float64 `param:"kernel"`
	Multiplier float64     `param:"multiplier"`
	Divisor    float64     `param:"divisor"`
	Offset     float64     `param:"offset"`
}

func filter2D(in []*imaging.Image, p filter2DParams) (*Output, error) {
	if p.File == "" {
		return image1(filter.Filter2D(in[0], p.Kernel, p.Multiplier, p.Divisor, p.Offset))
	}
	if p.Kernel != nil {
		return nil, fmt.Errorf("%w: filter2d takes a file or a kernel, not both", imaging.ErrInvalidArgument)
	}
	doc, err := loader.Load(p.File)
	if err != nil {
		return nil, err
	}
	if doc.Filter == nil {
		return nil, fmt.Errorf("%w: %s is a %s document, not a 2D filter", imaging.ErrFormat, p.File, doc.Kind)
	}
	return image1(doc.Filter.Apply(in[0]))
}

type cannyParams struct {
	Low  float64 `param:"low"`
	High float64 `param:"high"`
}

type morphologyParams struct {
	Op         string `param:"op"`
	KSize      int    `param:"ksize"`
	Iterations int    `param:"iterations"`
}

type morphEdgeParams struct {
	KSize  int `param:"ksize"`
	Dilate int `param:"dilate"`
	Erode  int `param:"erode"`
}

func labelingOp(overlay bool) func([]*imaging.Image, labelingParams) (*Output, error) {
	return func(in []*imaging.Image, p labelingParams) (*Output, error) {
		var (
			res *labeling.Result
			err error
		)
		if overlay {
			col, cerr := parseColor(p.Color)
			if cerr != nil {
				return nil, cerr
			}
			res, err = labeling.Overlay(in[0], p.MinSize, p.Connectivity, labeling.Options{Color: col, LabelSize: p.LabelSize})
		} else {
			if p.Color != "" {
				return nil, fmt.Errorf("%w: labeling_paint chooses its own colors", imaging.ErrInvalidArgument)
			}
			res, err = labeling.Paint(in[0], p.MinSize, p.Connectivity)
		}
		if err != nil {
			return nil, err
		}
		return &Output{Image: res.Image, Extra: LabelingExtra{Num: res.Num, Stats: res.Stats, Centroids: res.Centroids}}, nil
	}
}

type houghParams struct {
	Rho       float64 `param:"rho"`
	Theta     float64 `param:"theta"`
	Threshold int     `param:"threshold"`
	MinLength float64 `param:"min_length"`
	MaxGap    float64 `param:"max_gap"`
	Color     string  `param:"color"`
}

func houghLines(in []*imaging.Image, p houghParams) (*Output, error) {
	col, err := parseColor(p.Color)
	if err != nil {
		return nil, err
	}
	if p.MinLength != 0 || p.MaxGap != 0 {
		return nil, fmt.Errorf("%w: hough_lines takes no min_length or max_gap", imaging.ErrInvalidArgument)
	}
	res, err := detection.HoughLines(in[0], p.Rho, p.Theta, p.Threshold, col)
	if err != nil {
		return nil, err
	}
	return &Output{Image: res.Image, Extra: res.Lines}, nil
}

func houghSegments(in []*imaging.Image, p houghParams) (*Output, error) {
	col, err := parseColor(p.Color)
	if err != nil {
		return nil, err
	}
	res, err := detection.HoughSegments(in[0], p.Rho, p.Theta, p.Threshold, p.MinLength, p.MaxGap, col)
	if err != nil {
		return nil, err
	}
	return &Output{Image: res.Image, Extra: res.Segments}, nil
}

type circleParams struct {
	MinDist float64 `param:"min_dist"`
	Canny   float64 `param:"canny"`
	Votes   int     `param:"votes"`
	MinR    int     `param:"min_radius"`
	MaxR    int     `param:"max_radius"`
	Color   string  `param:"color"`
}

func houghCircles(in []*imaging.Image, p circleParams) (*Output, error) {
	col, err := parseColor(p.Color)
	if err != nil {
		return nil, err
	}
	res, err := detection.HoughCircles(in[0], p.MinDist, p.Canny, p.Votes, p.MinR, p.MaxR, col)
	if err != nil {
		return nil, err
	}
	return &Output{Image: res.Image, Extra: res.Circles}, nil
}

type contourParams struct {
	Mode  string `param:"mode"`
	Color string `param:"color"`
}

// ContoursExtra carries contour points and their hierarchy.
type ContoursExtra struct {
	Contours  [][]imaging.Point     `json:"contours"`
	Hierarchy []detection.Hierarchy `json:"hierarchy"`
}

func contours(in []*imaging.Image, p contourParams) (*Output, error) {
	col, err := parseColor(p.Color)
	if err != nil {
		return nil, err
	}
	mode, err := detection.ParseContourMode(p.Mode)
	if err != nil {
		return nil, err
	}
	res, err := detection.Contours(in[0], mode, col)
	if err != nil {
		return nil, err
	}
	return &Output{Image: res.Image, Extra: ContoursExtra{Contours: res.Contours, Hierarchy: res.Hierarchy}}, nil
}

type rectParams struct {
	MinArea   int     `param:"min_area"`
	Tolerance float64 `param:"tolerance"`
	Color     string  `param:"color"`
}

func rectangles(in []*imaging.Image, p rectParams) (*Output, error) {
	col, err := parseColor(p.Color)
	if err != nil {
		return nil, err
	}
	res, err := detection.Rectangles(in[0], p.MinArea, p.Tolerance, col)
	if err != nil {
		return nil, err
	}
	return &Output{Image: res.Image, Extra: res.Rectangles}, nil
}
