// Package pipeline names the image operations so they can be driven from
// data: a Registry maps snake_case operation names to functions taking
// operand images and a parameter map, and a Runner threads an image through
// the steps of a YAML Recipe.
//
// Parameters arrive as map[string]any from YAML or JSON and are decoded
// into per-operation structs with mapstructure, weakly typed so that "5",
// 5 and 5.0 all satisfy an int parameter. Unknown parameter names are
// rejected.
//
// Example recipe:
//
//	name: find-lines
//	steps:
//	  - op: gaussian_blur
//	    params: {ksize: 5}
//	  - op: threshold
//	    params: {method: otsu}
//	  - op: hough_lines
//	    params: {threshold: 80, color: "#00FF00"}
package pipeline
