package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Resolver turns a step's With reference into an image.
type Resolver func(ref string) (*imaging.Image, error)

// StepResult records what one step produced.
type StepResult struct {
	Op    string `json:"op"`
	Entry string `json:"entry"`
	Extra any    `json:"extra,omitempty"`
}

// RunResult is the final image of a recipe and the per-step results.
type RunResult struct {
	Image *imaging.Image
	Steps []StepResult
}

// Runner executes recipes against a registry.
type Runner struct {
	Registry *Registry
	Resolve  Resolver
	Logger   *slog.Logger
}

// NewRunner returns a runner over the built-in registry.
func NewRunner(resolve Resolver, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{Registry: NewRegistry(), Resolve: resolve, Logger: logger}
}

// Run threads src through every step of r. The context is checked before
// each step; a cancelled run returns the context's error.
func (rn *Runner) Run(ctx context.Context, src *imaging.Image, r *Recipe) (*RunResult, error) {
	if err := imaging.RequireImage(src, "run recipe"); err != nil {
		return nil, err
	}
	log := rn.Logger.With("recipe", r.Name)
	res := &RunResult{Image: src, Steps: make([]StepResult, 0, len(r.Steps))}
	for i, step := range r.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("recipe %q stopped before step %d: %w", r.Name, i+1, err)
		}
		operands, err := rn.operands(step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}

		start := time.Now()
		out, err := rn.Registry.Apply(step.Op, res.Image, operands, step.Params)
		if err != nil {
			log.Debug("step failed", "step", i+1, "op", step.Op, "error", err)
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		log.Debug("step done", "step", i+1, "op", step.Op,
			"kind", out.Image.Kind(), "size", fmt.Sprintf("%dx%d", out.Image.Width(), out.Image.Height()),
			"elapsed", time.Since(start))

		res.Image = out.Image
		res.Steps = append(res.Steps, StepResult{Op: step.Op, Entry: out.Image.Log().Last(), Extra: out.Extra})
	}
	return res, nil
}

func (rn *Runner) operands(step Step) ([]*imaging.Image, error) {
	if len(step.With) == 0 {
		return nil, nil
	}
	if rn.Resolve == nil {
		return nil, fmt.Errorf("%w: no resolver for operand %q", imaging.ErrInvalidArgument, step.With[0])
	}
	out := make([]*imaging.Image, 0, len(step.With))
	for _, ref := range step.With {
		img, err := rn.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("operand %q: %w", ref, err)
		}
		out = append(out, img)
	}
	return out, nil
}
