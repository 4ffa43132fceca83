package imaging

import (
	"fmt"
	"strings"
)

// Kind tags a TypedImage with its channel layout and the set of operations
// that accept it.
type Kind int

const (
	// KindColor is a 3-channel image stored in B,G,R order.
	KindColor Kind = iota
	// KindGray is a single-channel 8-bit image.
	KindGray
	// KindBinary is a single-channel image whose samples are 0 or 255.
	KindBinary
	// KindFrequency is a DC-centered complex spectrum paired with a normalized
	// single-channel magnitude buffer for display.
	KindFrequency
)

// Channels returns the number of interleaved samples per pixel in the
// buffer of an image of this kind.
func (k Kind) Channels() int {
	switch k {
	case KindColor:
		return 3
	case KindGray, KindBinary, KindFrequency:
		return 1
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindGray:
		return "gray"
	case KindBinary:
		return "binary"
	case KindFrequency:
		return "frequency"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a kind name ("color", "gray", "binary", "frequency") back to
// its Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "color", "colour", "bgr":
		return KindColor, nil
	case "gray", "grey":
		return KindGray, nil
	case "binary", "bin":
		return KindBinary, nil
	case "frequency", "freq":
		return KindFrequency, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, s)
}
