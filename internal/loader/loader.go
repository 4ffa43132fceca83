package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-pipeline/internal/filter"
	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Root kind tags.
const (
	KindLookupTable = "lookup_table"
	KindFilter2D    = "2D_filter"
)

// LookupTable is a named 256-entry intensity mapping.
type LookupTable struct {
	Name        string
	Description string
	Table       [256]uint8
}

// Apply runs the table over img's luma.
func (l *LookupTable) Apply(img *imaging.Image) (*imaging.Image, error) {
	return filter.ApplyLUT(img, &l.Table, l.Name)
}

// Filter2D is a named convolution kernel with its scaling and offset.
type Filter2D struct {
	Name        string
	Description string
	Multiplier  float64
	Divisor     float64
	Kernel      [][]float64
	Offset      float64
}

// Apply convolves img's luma with the kernel.
func (f *Filter2D) Apply(img *imaging.Image) (*imaging.Image, error) {
	return filter.Filter2D(img, f.Kernel, f.Multiplier, f.Divisor, f.Offset)
}

// Document is a parsed file. Exactly one of LUT and Filter is set,
// matching Kind.
type Document struct {
	Kind   string
	LUT    *LookupTable
	Filter *Filter2D
}

type rawDocument struct {
	Kind        string      `yaml:"kind"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Table       []int       `yaml:"table"`
	Multiplier  *float64    `yaml:"multiplier"`
	Divisor     *float64    `yaml:"divisor"`
	Kernel      [][]float64 `yaml:"kernel"`
	Offset      float64     `yaml:"offset"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a single document.
func Parse(data []byte) (*Document, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", imaging.ErrFormat)
		}
		return nil, fmt.Errorf("%w: %v", imaging.ErrFormat, err)
	}

	switch raw.Kind {
	case KindLookupTable:
		lut, err := raw.lookupTable()
		if err != nil {
			return nil, err
		}
		return &Document{Kind: raw.Kind, LUT: lut}, nil
	case KindFilter2D:
		f, err := raw.filter()
		if err != nil {
			return nil, err
		}
		return &Document{Kind: raw.Kind, Filter: f}, nil
	case "":
		return nil, fmt.Errorf("%w: missing kind", imaging.ErrFormat)
	default:
		return nil, fmt.Errorf("%w: unexpected kind %q", imaging.ErrFormat, raw.Kind)
	}
}

func (r *rawDocument) lookupTable() (*LookupTable, error) {
	if len(r.Table) != 256 {
		return nil, fmt.Errorf("%w: lookup table %q has %d entries, want 256",
			imaging.ErrFormat, r.Name, len(r.Table))
	}
	lut := &LookupTable{Name: r.Name, Description: r.Description}
	for i, v := range r.Table {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: lookup table %q entry %d = %d out of range",
				imaging.ErrFormat, r.Name, i, v)
		}
		lut.Table[i] = uint8(v)
	}
	return lut, nil
}

func (r *rawDocument) filter() (*Filter2D, error) {
	if len(r.Kernel) == 0 || len(r.Kernel[0]) == 0 {
		return nil, fmt.Errorf("%w: filter %q has an empty kernel", imaging.ErrFormat, r.Name)
	}
	for i, row := range r.Kernel {
		if len(row) != len(r.Kernel[0]) {
			return nil, fmt.Errorf("%w: filter %q kernel row %d has %d values, want %d",
				imaging.ErrFormat, r.Name, i, len(row), len(r.Kernel[0]))
		}
	}
	f := &Filter2D{
		Name:        r.Name,
		Description: r.Description,
		Multiplier:  1,
		Divisor:     1,
		Kernel:      r.Kernel,
		Offset:      r.Offset,
	}
	if r.Multiplier != nil {
		f.Multiplier = *r.Multiplier
	}
	if r.Divisor != nil {
		f.Divisor = *r.Divisor
	}
	return f, nil
}
