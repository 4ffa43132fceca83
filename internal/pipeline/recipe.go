package pipeline

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Step is one operation of a recipe. With lists operand references (file
// paths for the CLI, image ids for the server) resolved by the Runner.
type Step struct {
	Op     string   `yaml:"op" json:"op"`
	Params Params   `yaml:"params,omitempty" json:"params,omitempty"`
	With   []string `yaml:"with,omitempty" json:"with,omitempty"`
}

// Recipe is an ordered list of steps applied to one source image.
type Recipe struct {
	Name  string `yaml:"name" json:"name"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// LoadRecipe reads a recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := ParseRecipe(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ParseRecipe decodes a YAML (or JSON) recipe. Unknown fields and empty
// step lists are rejected; operation names are checked when the recipe
// runs.
func ParseRecipe(data []byte) (*Recipe, error) {
	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: recipe: %v", imaging.ErrFormat, err)
	}
	if len(r.Steps) == 0 {
		return nil, fmt.Errorf("%w: recipe %q has no steps", imaging.ErrFormat, r.Name)
	}
	for i, s := range r.Steps {
		if s.Op == "" {
			return nil, fmt.Errorf("%w: recipe %q step %d has no op", imaging.ErrFormat, r.Name, i+1)
		}
	}
	return &r, nil
}
