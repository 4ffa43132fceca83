// Package imaging provides the typed image model the pipeline operates on.
//
// An Image (a "TypedImage") pairs an owned pixel Buffer with a Kind tag, a
// display name and an append-only provenance Log. Every operation in this
// module is a function from one or more Images to a new Image whose log is the
// source log plus exactly one entry; the source is never modified. The point
// accessor Image.Set is the single exception and mutates in place.
//
// # Kinds
//
//   - KindColor: 3 channels interleaved in B,G,R order
//   - KindGray: 1 channel
//   - KindBinary: 1 channel, every sample 0 or 255
//   - KindFrequency: 1-channel normalized log-magnitude plus the complex
//     Spectrum it was derived from
//
// Operations gate on kind through Require, which returns a *KindError that
// matches ErrPrecondition. Kind-polymorphic tone and smoothing operations go
// through ApplyLuma: Color images are split into Y, Cr and Cb planes, only Y
// is transformed, and the planes are recombined.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. For regions, (x1,y1) is
// inclusive and (x2,y2) is exclusive.
//
// # Error Handling
//
// Failures wrap one of the sentinel errors in errors.go with %w so callers can
// classify them with errors.Is. Validation happens before any result buffer
// is allocated.
//
// # Thread Safety
//
// Images are safe to share between goroutines as long as nobody calls Set.
// ImageCache is safe for concurrent use.
package imaging
