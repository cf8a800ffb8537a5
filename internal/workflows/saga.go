package workflows

import (
	"context"
	"fmt"

	"github.com/caminoadmin/comunidades-go/internal/logger"
)

// Step is one action of a saga with its compensation. Compensate may be nil
// for steps that need no undo.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga runs steps in order. When a step fails, compensations of the already
// completed steps run in reverse order, so a partial multi-table workflow
// never stays half-applied. Compensation failures are logged and do not mask
// the original error.
type Saga struct {
	name  string
	steps []Step
	log   *logger.Logger
}

func NewSaga(name string, log *logger.Logger) *Saga {
	return &Saga{name: name, log: log.With("saga", name)}
}

// AddStep appends a step. Returns the saga for chaining.
func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the saga. The returned error is the failing step's error,
// wrapped with the step name.
func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Action(ctx); err != nil {
			s.log.Error("step failed, compensating", "step", step.Name, "error", err)
			s.compensate(ctx, i-1)
			return fmt.Errorf("%s: step %s failed: %w", s.name, step.Name, err)
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, from int) {
	for i := from; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.log.Error("compensation failed", "step", step.Name, "error", err)
		}
	}
}
