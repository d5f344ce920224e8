//go:build unit

package firetasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

func manifestItemsFixture() map[string]any {
	return map[string]any{
		"eb58eb70ebcddf630feeea28834f5256c207edfd": map[string]any{
			"relpath":       "simple_text_file.txt",
			"size_in_bytes": 17,
		},
		"4a9b8c3d2e1f0a9b8c3d2e1f0a9b8c3d2e1f0a9b": map[string]any{
			"relpath":       "another_file.dat",
			"size_in_bytes": 42,
		},
	}
}

func TestSearchDictTask_ExpandsSingleMatch(t *testing.T) {
	task, err := NewSearchDictTask(spec.Spec{
		"input_key":   "manifest_dtool_task->result->items",
		"search_key":  "initial_inputs->search",
		"marker_key":  "initial_inputs->marker",
		"limit":       1,
		"expand":      true,
		"stored_data": true,
		"output_key":  "search_dict_task->result",
	}, nil)
	require.NoError(t, err)

	fwSpec := spec.Spec{
		"manifest_dtool_task": map[string]any{
			"result": map[string]any{"items": manifestItemsFixture()},
		},
		"initial_inputs": map[string]any{
			"search": map[string]any{"relpath": "simple_text_file.txt"},
			"marker": map[string]any{"relpath": true},
		},
	}
	action, err := task.RunTask(context.Background(), fwSpec)
	require.NoError(t, err)

	assert.Equal(t, "eb58eb70ebcddf630feeea28834f5256c207edfd", action.StoredData["output"])
	require.Len(t, action.ModSpec, 1)
	assert.Equal(t, "eb58eb70ebcddf630feeea28834f5256c207edfd",
		action.ModSpec[0][spec.ModSet]["search_dict_task->result"])
}

func TestSearchDictTask_DirectSearchDocument(t *testing.T) {
	task, err := NewSearchDictTask(spec.Spec{
		"input_key":   "items",
		"search":      map[string]any{"size_in_bytes": 42},
		"stored_data": true,
	}, nil)
	require.NoError(t, err)

	fwSpec := spec.Spec{"items": manifestItemsFixture()}
	action, err := task.RunTask(context.Background(), fwSpec)
	require.NoError(t, err)

	matches, ok := action.StoredData["output"].([]any)
	require.True(t, ok)
	require.Len(t, matches, 1)
	assert.Equal(t, "4a9b8c3d2e1f0a9b8c3d2e1f0a9b8c3d2e1f0a9b", matches[0])
}

func TestSearchDictTask_NoMatchYieldsEmptyList(t *testing.T) {
	task, err := NewSearchDictTask(spec.Spec{
		"input_key":   "items",
		"search":      map[string]any{"relpath": "missing.txt"},
		"stored_data": true,
	}, nil)
	require.NoError(t, err)

	fwSpec := spec.Spec{"items": manifestItemsFixture()}
	action, err := task.RunTask(context.Background(), fwSpec)
	require.NoError(t, err)

	matches, ok := action.StoredData["output"].([]any)
	require.True(t, ok)
	assert.Empty(t, matches)
}

func TestSearchDictTask_MissingInputFizzles(t *testing.T) {
	task, err := NewSearchDictTask(spec.Spec{
		"input_key": "absent",
		"search":    map[string]any{"relpath": "x"},
	}, nil)
	require.NoError(t, err)

	_, err = task.RunTask(context.Background(), spec.Spec{})
	assert.Error(t, err)
}

func TestNewSearchDictTask_RequiresSearch(t *testing.T) {
	_, err := NewSearchDictTask(spec.Spec{"input_key": "items"}, nil)
	assert.Error(t, err)
}
