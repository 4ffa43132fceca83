// Package filter implements the transform family of the pipeline: global and
// adaptive thresholding, tone curves, spatial smoothing and derivative
// filters, generic kernels, morphology, shading correction, posterization,
// Canny edges, binary clean-up and two-operand arithmetic.
//
// Every function takes its input images unchanged and returns a new
// *imaging.Image whose provenance log carries exactly one additional entry
// recording the resolved parameters. Kind-polymorphic operations work on the
// luma plane of Color images (see imaging.ApplyLuma).
//
// Kernel and block sizes are normalized with OddSize, so an even size n
// behaves exactly like n+1.
package filter
