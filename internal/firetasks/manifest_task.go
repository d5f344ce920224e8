package firetasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/jotelha/jlhfw/internal/domain/datasets"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// ManifestTaskName resolves the manifest lookup task in the registry.
const ManifestTaskName = "ManifestTask"

// ManifestTask fetches a dataset's item manifest by URI and emits its
// document form through the generic output handling.
type ManifestTask struct {
	params    tasks.Params
	connector datasets.DatasetConnector
	log       logger.Logger
}

// NewManifestTask creates the task from its raw parameter document.
func NewManifestTask(params spec.Spec, connector datasets.DatasetConnector, log logger.Logger) (*ManifestTask, error) {
	if connector == nil {
		return nil, errors.New("manifest task requires a dataset connector")
	}
	p := tasks.NewParams(params)
	if !p.Has("uri") {
		return nil, errors.New("manifest task requires a uri parameter")
	}
	return &ManifestTask{params: p, connector: connector, log: log}, nil
}

// Name returns the registry name of the task.
func (t *ManifestTask) Name() string { return ManifestTaskName }

// RunTask fetches and emits the manifest.
func (t *ManifestTask) RunTask(ctx context.Context, fwSpec spec.Spec) (*tasks.Action, error) {
	uri, err := t.params.String("uri", "", fwSpec)
	if err != nil {
		return nil, err
	}

	manifest, err := t.connector.Manifest(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest of %q: %w", uri, err)
	}
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("manifest of %q: %w", uri, err)
	}

	opts, err := tasks.ParseOutputOptions(t.params, fwSpec)
	if err != nil {
		return nil, err
	}
	return opts.Action(manifest.Document()), nil
}
