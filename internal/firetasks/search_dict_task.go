package firetasks

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// SearchDictTaskName resolves the dict search task in the registry.
const SearchDictTaskName = "SearchDictTask"

// SearchDictTask scans a spec-resident document of entries for those
// matching a search subtree under marker-guided comparison and emits
// the matching keys. With expand, a single match is unwrapped to its
// bare key, ready for indirection by downstream tasks.
//
// Parameters: input_key (required), search or search_key, marker or
// marker_key, limit, expand, output_key plus the generic stored_data,
// dict_mod and propagate.
type SearchDictTask struct {
	params tasks.Params
	log    logger.Logger
}

// NewSearchDictTask creates the task from its raw parameter document.
func NewSearchDictTask(params spec.Spec, log logger.Logger) (*SearchDictTask, error) {
	p := tasks.NewParams(params)
	if !p.Has("input_key") {
		return nil, errors.New("search dict task requires an input_key parameter")
	}
	if !p.Has("search") && !p.Has("search_key") {
		return nil, errors.New("search dict task requires a search or search_key parameter")
	}
	return &SearchDictTask{params: p, log: log}, nil
}

// Name returns the registry name of the task.
func (t *SearchDictTask) Name() string { return SearchDictTaskName }

// RunTask performs the search and emits the matching keys.
func (t *SearchDictTask) RunTask(ctx context.Context, fwSpec spec.Spec) (*tasks.Action, error) {
	inputKey, err := t.params.String("input_key", "", fwSpec)
	if err != nil {
		return nil, err
	}
	input, err := spec.GetNested(fwSpec, inputKey)
	if err != nil {
		return nil, fmt.Errorf("resolving input document: %w", err)
	}
	inputDoc, ok := input.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("input at %q is not a document, got %T", inputKey, input)
	}

	search, err := t.searchDocument(fwSpec)
	if err != nil {
		return nil, err
	}
	marker, err := t.marker(fwSpec)
	if err != nil {
		return nil, err
	}

	limit, err := t.params.Int("limit", 0, fwSpec)
	if err != nil {
		return nil, err
	}
	expand, err := t.params.Bool("expand", false, fwSpec)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(inputDoc))
	for key := range inputDoc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var matches []string
	for _, key := range keys {
		if spec.Compare(inputDoc[key], search, marker) {
			matches = append(matches, key)
		}
	}
	if t.log != nil {
		t.log.Info(fmt.Sprintf("search within %q yielded %d matches", inputKey, len(matches)))
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	var output any = toAnySlice(matches)
	if expand && len(matches) == 1 {
		output = matches[0]
	}

	opts, err := t.outputOptions(fwSpec)
	if err != nil {
		return nil, err
	}
	return opts.Action(output), nil
}

func (t *SearchDictTask) searchDocument(fwSpec spec.Spec) (map[string]any, error) {
	if t.params.Has("search") {
		doc, err := t.params.Document("search", fwSpec)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	searchKey, err := t.params.String("search_key", "", fwSpec)
	if err != nil {
		return nil, err
	}
	value, err := spec.GetNested(fwSpec, searchKey)
	if err != nil {
		return nil, fmt.Errorf("resolving search document: %w", err)
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("search document at %q is not a document, got %T", searchKey, value)
	}
	return doc, nil
}

func (t *SearchDictTask) marker(fwSpec spec.Spec) (spec.Marker, error) {
	if t.params.Has("marker") {
		return t.params.Marker("marker", nil, fwSpec)
	}
	if !t.params.Has("marker_key") {
		return nil, nil
	}
	markerKey, err := t.params.String("marker_key", "", fwSpec)
	if err != nil {
		return nil, err
	}
	value, err := spec.GetNested(fwSpec, markerKey)
	if err != nil {
		return nil, fmt.Errorf("resolving marker document: %w", err)
	}
	doc, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("marker at %q is not a document, got %T", markerKey, value)
	}
	return spec.Marker(doc), nil
}

// outputOptions mirrors the generic output handling, except that the
// injection target is named output_key here.
func (t *SearchDictTask) outputOptions(fwSpec spec.Spec) (tasks.OutputOptions, error) {
	var opts tasks.OutputOptions
	var err error

	if opts.StoredData, err = t.params.Bool("stored_data", false, fwSpec); err != nil {
		return opts, err
	}
	if opts.OutputKey, err = t.params.String("output_key", "", fwSpec); err != nil {
		return opts, err
	}
	if opts.DictMod, err = t.params.String("dict_mod", spec.ModSet, fwSpec); err != nil {
		return opts, err
	}
	if opts.Propagate, err = t.params.Bool("propagate", false, fwSpec); err != nil {
		return opts, err
	}
	return opts, nil
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
