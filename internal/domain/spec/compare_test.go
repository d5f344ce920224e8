//go:build unit
// +build unit

package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare_NilMarkerComparesFullTargetShape(t *testing.T) {
	source := map[string]any{
		"relpath":       "simple_text_file.txt",
		"size_in_bytes": 17,
	}

	assert.True(t, Compare(source, map[string]any{"relpath": "simple_text_file.txt"}, nil))
	assert.False(t, Compare(source, map[string]any{"relpath": "other.txt"}, nil))
	assert.False(t, Compare(source, map[string]any{"missing": true}, nil))
}

func TestCompare_MarkerControlsWhichLeavesMatter(t *testing.T) {
	source := map[string]any{
		"hash":          "2f7d9c3e0cfd47e8fcab0c12447b2bf0",
		"relpath":       "simple_text_file.txt",
		"utc_timestamp": 1606595093.53965,
	}
	target := map[string]any{
		"hash":          "2f7d9c3e0cfd47e8fcab0c12447b2bf0",
		"relpath":       "simple_text_file.txt",
		"utc_timestamp": 0.0, // differs, but masked out below
	}

	marker := Marker{
		"hash":          true,
		"relpath":       true,
		"utc_timestamp": false,
	}

	assert.True(t, Compare(source, target, marker))

	marker["utc_timestamp"] = true
	assert.False(t, Compare(source, target, marker))
}

func TestCompare_NestedMarker(t *testing.T) {
	source := map[string]any{
		"items": map[string]any{
			"eb58eb70": map[string]any{"relpath": "a.txt", "size_in_bytes": 17},
		},
	}
	target := map[string]any{
		"items": map[string]any{
			"eb58eb70": map[string]any{"relpath": "a.txt", "size_in_bytes": 99},
		},
	}

	marker := Marker{
		"items": map[string]any{
			"eb58eb70": map[string]any{"relpath": true, "size_in_bytes": false},
		},
	}

	assert.True(t, Compare(source, target, marker))
}

func TestCompare_NumericLeavesAcrossGoTypes(t *testing.T) {
	// JSON decoding yields float64, in-process documents carry int
	assert.True(t, Compare(map[string]any{"n": 17}, map[string]any{"n": 17.0}, Marker{"n": true}))
	assert.False(t, Compare(map[string]any{"n": 17}, map[string]any{"n": 18.0}, Marker{"n": true}))
}
