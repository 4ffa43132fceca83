// Package frequency converts images to and from the 2-D frequency domain.
//
// Forward produces a KindFrequency image: a display magnitude buffer plus
// the centered complex spectrum. Inverse consumes that spectrum, optionally
// masked, and returns a Gray image.
package frequency
