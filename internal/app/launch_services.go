package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jotelha/jlhfw/internal/domain/launches"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// taskLaunchService implements the TaskLaunchService interface for
// resolving and running tasks
type taskLaunchService struct {
	registry   *tasks.Registry
	launchRepo launches.LaunchRepository
	launchRoot string
	logger     logger.Logger
}

// NewTaskLaunchService creates a new instance of TaskLaunchService.
// launchRoot is the directory new launch directories are created under.
func NewTaskLaunchService(
	registry *tasks.Registry,
	launchRepo launches.LaunchRepository,
	launchRoot string,
	logger logger.Logger,
) (launches.TaskLaunchService, error) {
	if registry == nil {
		return nil, fmt.Errorf("task registry must not be nil")
	}
	if launchRoot == "" {
		return nil, fmt.Errorf("launch root must not be empty")
	}
	return &taskLaunchService{
		registry:   registry,
		launchRepo: launchRepo,
		launchRoot: launchRoot,
		logger:     logger,
	}, nil
}

// Launch resolves taskName, instantiates it with params, runs it inside
// a fresh launch directory and records the outcome. A task failure
// marks the launch fizzled; the record is persisted either way.
func (s *taskLaunchService) Launch(ctx context.Context, taskName string, params, fwSpec spec.Spec) (*tasks.Action, *launches.LaunchMeta, error) {
	factory, pkg, err := s.registry.Lookup(taskName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w", err)
	}

	task, err := factory(params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to instantiate task %q: %w", taskName, err)
	}

	launchID := uuid.New().String()
	launchDir := filepath.Join(s.launchRoot, "launch-"+launchID)
	if err := os.MkdirAll(launchDir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create launch directory: %w", err)
	}

	meta := &launches.LaunchMeta{
		ID:              launchID,
		TaskName:        taskName,
		Package:         pkg,
		LaunchDir:       launchDir,
		DateTimeCreated: time.Now(),
	}

	s.logger.Info("Launching task ", taskName, " in ", launchDir)

	action, runErr := task.RunTask(tasks.WithLaunchDir(ctx, launchDir), fwSpec)
	meta.DateTimeCompleted = time.Now()

	if runErr != nil {
		meta.State = launches.StateFizzled
		meta.Error = runErr.Error()
		s.logger.Warn("Task ", taskName, " fizzled: ", runErr)
	} else {
		meta.State = launches.StateCompleted
		if action != nil && action.StoredData != nil {
			storedData, err := json.Marshal(action.StoredData)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to encode stored data: %w", err)
			}
			meta.StoredData = storedData
		}
	}

	if err := s.launchRepo.Create(ctx, meta); err != nil {
		return nil, nil, fmt.Errorf("failed to persist launch record: %w", err)
	}

	if runErr != nil {
		return nil, meta, runErr
	}

	s.logger.Info("Task ", taskName, " completed, launch ", launchID)
	return action, meta, nil
}

// ListTasks returns the task names resolvable by the service, grouped
// by package.
func (s *taskLaunchService) ListTasks() map[string][]string {
	return s.registry.Tasks()
}

// launchMetadataService implements the LaunchMetadataService interface
// for reading and managing the launch ledger
type launchMetadataService struct {
	launchRepo launches.LaunchRepository
	logger     logger.Logger
}

// NewLaunchMetadataService creates a new instance of launchMetadataService
func NewLaunchMetadataService(launchRepo launches.LaunchRepository, logger logger.Logger) (launches.LaunchMetadataService, error) {
	return &launchMetadataService{
		launchRepo: launchRepo,
		logger:     logger,
	}, nil
}

// List retrieves all launch records considering a query filter
func (s *launchMetadataService) List(ctx context.Context, query *launches.LaunchQuery) ([]*launches.LaunchMeta, error) {
	launchMetas, err := s.launchRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return launchMetas, nil
}

// GetByID retrieves a launch record by ID
func (s *launchMetadataService) GetByID(ctx context.Context, launchID string) (*launches.LaunchMeta, error) {
	launchMeta, err := s.launchRepo.GetByID(ctx, launchID)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return launchMeta, nil
}

// DeleteByID deletes a launch record by ID
func (s *launchMetadataService) DeleteByID(ctx context.Context, launchID string) error {
	if err := s.launchRepo.DeleteByID(ctx, launchID); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
