package tasks

import (
	"context"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// FireTask is a unit of executable work invoked by the execution
// engine. RunTask receives the firework's spec and returns the action
// steering the surrounding workflow. A non-nil error marks the launch
// as fizzled.
type FireTask interface {
	// Name returns the task name the registry resolves.
	Name() string

	// RunTask executes the task against the given firework spec.
	RunTask(ctx context.Context, fwSpec spec.Spec) (*Action, error)
}

// Factory builds a task instance from its raw parameter document.
type Factory func(params spec.Spec) (FireTask, error)
