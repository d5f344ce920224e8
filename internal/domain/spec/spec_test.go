//go:build unit
// +build unit

package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNested(t *testing.T) {
	s := Spec{
		"machine": map[string]any{
			"queue": map[string]any{
				"walltime": "24:00",
			},
		},
		"restart_count": 3,
	}

	tests := []struct {
		name      string
		path      string
		expected  any
		shouldErr bool
	}{
		{"top-level key", "restart_count", 3, false},
		{"nested key", "machine->queue->walltime", "24:00", false},
		{"intermediate document", "machine->queue", map[string]any{"walltime": "24:00"}, false},
		{"missing top-level key", "cluster", nil, true},
		{"missing nested key", "machine->queue->nodes", nil, true},
		{"descend into scalar", "restart_count->deeper", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := GetNested(s, tt.path)
			if tt.shouldErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrPathNotFound)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, value)
			}
		})
	}
}

func TestSetNested_CreatesIntermediateDocuments(t *testing.T) {
	s := Spec{}
	SetNested(s, "run->lammps->restart_file", "coeff.restart5")

	value, err := GetNested(s, "run->lammps->restart_file")
	require.NoError(t, err)
	assert.Equal(t, "coeff.restart5", value)
}

func TestSetNested_ReplacesScalarOnPath(t *testing.T) {
	s := Spec{"run": "plain"}
	SetNested(s, "run->step", 7)

	value, err := GetNested(s, "run->step")
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestDeleteNested(t *testing.T) {
	s := Spec{"a": map[string]any{"b": 1, "c": 2}}

	require.NoError(t, DeleteNested(s, "a->b"))

	_, err := GetNested(s, "a->b")
	assert.ErrorIs(t, err, ErrPathNotFound)

	err = DeleteNested(s, "a->missing")
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestFromSpec(t *testing.T) {
	fwSpec := Spec{"limits": map[string]any{"max_restarts": 8}}

	resolved, err := FromSpec(map[string]any{"key": "limits->max_restarts"}, fwSpec)
	require.NoError(t, err)
	assert.Equal(t, 8, resolved)

	// non-indirection parameters pass through untouched
	passthrough, err := FromSpec(5, fwSpec)
	require.NoError(t, err)
	assert.Equal(t, 5, passthrough)

	asIs, err := FromSpec(map[string]any{"other": "field"}, fwSpec)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"other": "field"}, asIs)

	_, err = FromSpec(map[string]any{"key": "limits->missing"}, fwSpec)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestClone_IsDeep(t *testing.T) {
	original := Spec{
		"nested": map[string]any{"list": []any{1, 2}},
	}

	copied := Clone(original)
	SetNested(copied, "nested->list", []any{1, 2, 3})
	SetNested(copied, "nested->added", true)

	value, err := GetNested(original, "nested->list")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, value)

	_, err = GetNested(original, "nested->added")
	assert.ErrorIs(t, err, ErrPathNotFound)
}
