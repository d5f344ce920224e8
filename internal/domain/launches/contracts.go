package launches

import (
	"context"

	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
)

// LaunchRepository is an interface for persisting and querying launch
// metadata records.
type LaunchRepository interface {
	// Create persists a new launch record.
	Create(ctx context.Context, launch *LaunchMeta) error

	// List returns launch records matching the query.
	List(ctx context.Context, query *LaunchQuery) ([]*LaunchMeta, error)

	// GetByID retrieves a launch record by its id.
	GetByID(ctx context.Context, id string) (*LaunchMeta, error)

	// DeleteByID removes a launch record by its id.
	DeleteByID(ctx context.Context, id string) error
}

// TaskLaunchService is an interface for resolving a task by name,
// running it in a fresh launch directory and recording the outcome.
type TaskLaunchService interface {
	// Launch resolves taskName, runs the task against fwSpec and
	// returns the action it produced together with the recorded
	// launch metadata. A fizzled task still yields metadata; the
	// returned error then carries the task failure.
	Launch(ctx context.Context, taskName string, params, fwSpec spec.Spec) (*tasks.Action, *LaunchMeta, error)

	// ListTasks returns the task names resolvable by the service,
	// grouped by package.
	ListTasks() map[string][]string
}

// LaunchMetadataService is an interface for reading and managing the
// launch ledger.
type LaunchMetadataService interface {
	// List returns launch records matching the query.
	List(ctx context.Context, query *LaunchQuery) ([]*LaunchMeta, error)

	// GetByID retrieves a launch record by its id.
	GetByID(ctx context.Context, id string) (*LaunchMeta, error)

	// DeleteByID removes a launch record by its id.
	DeleteByID(ctx context.Context, id string) error
}
