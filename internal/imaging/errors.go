package imaging

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by every pipeline package. Callers match with
// errors.Is; the concrete message carries the operation and parameters.
var (
	ErrInvalidBuffer   = errors.New("invalid buffer")
	ErrPrecondition    = errors.New("precondition failed")
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDegenerateInput = errors.New("degenerate input")
	ErrDivideByZero    = errors.New("divide by zero")
	ErrDecode          = errors.New("decode failed")
	ErrEncode          = errors.New("encode failed")
	ErrFormat          = errors.New("format error")
)

// KindError reports an operation invoked on an image whose kind it does not
// accept. It unwraps to ErrPrecondition.
type KindError struct {
	Op   string
	Got  Kind
	Want []Kind
}

func (e *KindError) Error() string {
	want := make([]string, len(e.Want))
	for i, k := range e.Want {
		want[i] = k.String()
	}
	return fmt.Sprintf("%s: %s requires %s input, got %s",
		ErrPrecondition, e.Op, strings.Join(want, " or "), e.Got)
}

func (e *KindError) Unwrap() error { return ErrPrecondition }
