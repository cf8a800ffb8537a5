package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoadmin/comunidades-go/internal/logger"
)

func TestSagaRunsStepsInOrder(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return Step{Name: name, Action: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	saga := NewSaga("test", logger.NewNop())
	saga.AddStep(step("one")).AddStep(step("two")).AddStep(step("three"))

	require.NoError(t, saga.Run(context.Background()))
	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func TestSagaCompensatesInReverseOrder(t *testing.T) {
	var order []string
	step := func(name string, fail bool) Step {
		return Step{
			Name: name,
			Action: func(context.Context) error {
				if fail {
					return errors.New("boom")
				}
				order = append(order, "do:"+name)
				return nil
			},
			Compensate: func(context.Context) error {
				order = append(order, "undo:"+name)
				return nil
			},
		}
	}

	saga := NewSaga("test", logger.NewNop())
	saga.AddStep(step("one", false)).AddStep(step("two", false)).AddStep(step("three", true))

	err := saga.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step three failed")
	assert.Equal(t, []string{"do:one", "do:two", "undo:two", "undo:one"}, order)
}

func TestSagaFailingStepIsNotCompensated(t *testing.T) {
	compensated := false
	saga := NewSaga("test", logger.NewNop())
	saga.AddStep(Step{
		Name:       "only",
		Action:     func(context.Context) error { return errors.New("boom") },
		Compensate: func(context.Context) error { compensated = true; return nil },
	})

	require.Error(t, saga.Run(context.Background()))
	assert.False(t, compensated, "a step that never completed must not be undone")
}

func TestSagaSkipsNilCompensations(t *testing.T) {
	saga := NewSaga("test", logger.NewNop())
	saga.AddStep(Step{Name: "one", Action: func(context.Context) error { return nil }})
	saga.AddStep(Step{Name: "two", Action: func(context.Context) error { return errors.New("boom") }})

	assert.Error(t, saga.Run(context.Background()))
}

func TestSagaCompensationFailureKeepsOriginalError(t *testing.T) {
	cause := errors.New("original failure")
	saga := NewSaga("test", logger.NewNop())
	saga.AddStep(Step{
		Name:       "one",
		Action:     func(context.Context) error { return nil },
		Compensate: func(context.Context) error { return errors.New("undo also failed") },
	})
	saga.AddStep(Step{Name: "two", Action: func(context.Context) error { return cause }})

	err := saga.Run(context.Background())
	assert.ErrorIs(t, err, cause)
}
