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

// ReadmeTaskName resolves the readme lookup task in the registry.
const ReadmeTaskName = "ReadmeTask"

// ReadmeTask fetches a dataset's readme document by URI. When
// metadata_fw_source_key names a document within the firework spec, the
// readme is merged with it: fw_supersedes_dtool picks the winning side,
// metadata_dtool_exclusions and metadata_fw_exclusions strip keys from
// either side before merging.
type ReadmeTask struct {
	params    tasks.Params
	connector datasets.DatasetConnector
	log       logger.Logger
}

// NewReadmeTask creates the task from its raw parameter document.
func NewReadmeTask(params spec.Spec, connector datasets.DatasetConnector, log logger.Logger) (*ReadmeTask, error) {
	if connector == nil {
		return nil, errors.New("readme task requires a dataset connector")
	}
	p := tasks.NewParams(params)
	if !p.Has("uri") {
		return nil, errors.New("readme task requires a uri parameter")
	}
	return &ReadmeTask{params: p, connector: connector, log: log}, nil
}

// Name returns the registry name of the task.
func (t *ReadmeTask) Name() string { return ReadmeTaskName }

// RunTask fetches the readme, optionally merges spec-resident metadata
// and emits the result through the generic output handling.
func (t *ReadmeTask) RunTask(ctx context.Context, fwSpec spec.Spec) (*tasks.Action, error) {
	uri, err := t.params.String("uri", "", fwSpec)
	if err != nil {
		return nil, err
	}

	readme, err := t.connector.Readme(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("fetching readme of %q: %w", uri, err)
	}

	var output any = map[string]any(readme)
	if t.params.Has("metadata_fw_source_key") {
		if output, err = t.mergeWithSpecMetadata(readme, fwSpec); err != nil {
			return nil, err
		}
	}

	opts, err := tasks.ParseOutputOptions(t.params, fwSpec)
	if err != nil {
		return nil, err
	}
	return opts.Action(output), nil
}

func (t *ReadmeTask) mergeWithSpecMetadata(readme, fwSpec spec.Spec) (any, error) {
	sourceKey, err := t.params.String("metadata_fw_source_key", "metadata", fwSpec)
	if err != nil {
		return nil, err
	}
	fwSupersedes, err := t.params.Bool("fw_supersedes_dtool", false, fwSpec)
	if err != nil {
		return nil, err
	}
	dtoolExclusions, err := t.params.Marker("metadata_dtool_exclusions", nil, fwSpec)
	if err != nil {
		return nil, err
	}
	fwExclusions, err := t.params.Marker("metadata_fw_exclusions", nil, fwSpec)
	if err != nil {
		return nil, err
	}

	var fwMetadata spec.Spec
	if value, err := spec.GetNested(fwSpec, sourceKey); err == nil {
		if doc, ok := value.(map[string]any); ok {
			fwMetadata = spec.Spec(doc)
		} else {
			return nil, fmt.Errorf("spec metadata at %q is not a document, got %T", sourceKey, value)
		}
	} else if t.log != nil {
		t.log.Warn(fmt.Sprintf("no spec metadata found at %q, merging readme alone", sourceKey))
	}

	dtoolDoc := spec.Merge(readme, nil, spec.MergeOptions{AddKeys: true, Exclusions: dtoolExclusions})
	fwDoc := spec.Merge(fwMetadata, nil, spec.MergeOptions{AddKeys: true, Exclusions: fwExclusions})

	if fwSupersedes {
		return map[string]any(spec.Merge(dtoolDoc, fwDoc, spec.MergeOptions{AddKeys: true})), nil
	}
	return map[string]any(spec.Merge(fwDoc, dtoolDoc, spec.MergeOptions{AddKeys: true})), nil
}
