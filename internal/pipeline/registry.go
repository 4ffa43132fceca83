package pipeline

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Params holds an operation's named parameters.
type Params map[string]any

// Output is what an operation returns: the derived image and, for
// operations that measure something, a JSON-friendly Extra.
type Output struct {
	Image *imaging.Image
	Extra any
}

// Func runs an operation. inputs[0] is the image being processed; further
// entries are operands such as a mask or shading references.
type Func func(inputs []*imaging.Image, p Params) (*Output, error)

// Op describes a registered operation.
type Op struct {
	Name    string
	Summary string
	// Operands is the number of images beyond the source that the
	// operation requires; Optional more may be supplied.
	Operands int
	Optional int
	Fn       Func
}

// Registry maps operation names to their implementations.
type Registry struct {
	ops map[string]Op
}

// NewRegistry returns a registry holding every built-in operation.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]Op)}
	for _, op := range builtins() {
		if err := r.Register(op); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds op. Names must be unique.
func (r *Registry) Register(op Op) error {
	if op.Name == "" || op.Fn == nil {
		return fmt.Errorf("%w: operation needs a name and a function", imaging.ErrInvalidArgument)
	}
	if _, dup := r.ops[op.Name]; dup {
		return fmt.Errorf("%w: operation %q already registered", imaging.ErrInvalidArgument, op.Name)
	}
	r.ops[op.Name] = op
	return nil
}

// Lookup returns the named operation.
func (r *Registry) Lookup(name string) (Op, error) {
	op, ok := r.ops[name]
	if !ok {
		return Op{}, fmt.Errorf("%w: unknown operation %q", imaging.ErrInvalidArgument, name)
	}
	return op, nil
}

// Names lists the registered operations alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for n := range r.ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Ops lists the registered operations sorted by name.
func (r *Registry) Ops() []Op {
	out := make([]Op, 0, len(r.ops))
	for _, n := range r.Names() {
		out = append(out, r.ops[n])
	}
	return out
}

// Apply runs the named operation on src plus operands.
func (r *Registry) Apply(name string, src *imaging.Image, operands []*imaging.Image, p Params) (*Output, error) {
	op, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if n := len(operands); n < op.Operands || n > op.Operands+op.Optional {
		return nil, fmt.Errorf("%w: %s takes %d operand image(s), got %d",
			imaging.ErrInvalidArgument, name, op.Operands, n)
	}
	if err := imaging.RequireImage(src, name); err != nil {
		return nil, err
	}
	for i, o := range operands {
		if o == nil {
			return nil, fmt.Errorf("%w: %s operand %d is nil", imaging.ErrInvalidArgument, name, i+1)
		}
	}
	if p == nil {
		p = Params{}
	}
	return op.Fn(append([]*imaging.Image{src}, operands...), p)
}

// decode fills dst, a pointer to a params struct already holding the
// defaults, from p.
func decode(op string, p Params, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "param",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(p)); err != nil {
		return fmt.Errorf("%w: %s parameters: %v", imaging.ErrInvalidArgument, op, err)
	}
	return nil
}

// parseColor turns an optional hex string into a color; empty gives nil so
// callers fall back to their default.
func parseColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	return imaging.ParseHexColor(s)
}
