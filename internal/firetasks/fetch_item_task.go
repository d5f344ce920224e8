package firetasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jotelha/jlhfw/internal/domain/datasets"
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// FetchItemTaskName resolves the item fetch task in the registry.
const FetchItemTaskName = "FetchItemTask"

// FetchItemTask downloads a single item of a dataset, identified by
// source URI and item id, to a local filename within the launch
// directory. The item_id parameter commonly carries spec indirection,
// pointing at the output of a preceding search task.
type FetchItemTask struct {
	params    tasks.Params
	connector datasets.DatasetConnector
	log       logger.Logger
}

// NewFetchItemTask creates the task from its raw parameter document.
func NewFetchItemTask(params spec.Spec, connector datasets.DatasetConnector, log logger.Logger) (*FetchItemTask, error) {
	if connector == nil {
		return nil, errors.New("fetch item task requires a dataset connector")
	}
	p := tasks.NewParams(params)
	for _, required := range []string{"source", "item_id", "filename"} {
		if !p.Has(required) {
			return nil, fmt.Errorf("fetch item task requires a %s parameter", required)
		}
	}
	return &FetchItemTask{params: p, connector: connector, log: log}, nil
}

// Name returns the registry name of the task.
func (t *FetchItemTask) Name() string { return FetchItemTaskName }

// RunTask downloads the item and emits its local path and size.
func (t *FetchItemTask) RunTask(ctx context.Context, fwSpec spec.Spec) (*tasks.Action, error) {
	source, err := t.params.String("source", "", fwSpec)
	if err != nil {
		return nil, err
	}
	itemID, err := t.params.String("item_id", "", fwSpec)
	if err != nil {
		return nil, err
	}
	filename, err := t.params.String("filename", "", fwSpec)
	if err != nil {
		return nil, err
	}

	destPath := filename
	if !filepath.IsAbs(destPath) {
		launchDir, err := tasks.LaunchDir(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving launch directory: %w", err)
		}
		destPath = filepath.Join(launchDir, filename)
	}

	written, err := t.connector.FetchItem(ctx, source, itemID, destPath)
	if err != nil {
		return nil, fmt.Errorf("fetching item %q of %q: %w", itemID, source, err)
	}
	if t.log != nil {
		t.log.Info(fmt.Sprintf("fetched item %q of %q to %q (%d bytes)", itemID, source, destPath, written))
	}

	opts, err := tasks.ParseOutputOptions(t.params, fwSpec)
	if err != nil {
		return nil, err
	}
	return opts.Action(map[string]any{
		"source":        source,
		"item_id":       itemID,
		"filename":      destPath,
		"size_in_bytes": written,
	}), nil
}
