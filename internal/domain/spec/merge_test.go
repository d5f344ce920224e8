//go:build unit
// +build unit

package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_OverlayWinsOnConflicts(t *testing.T) {
	base := Spec{
		"project":  "base project",
		"metadata": map[string]any{"owner": "base", "year": 2020},
	}
	overlay := Spec{
		"project":  "derived project",
		"metadata": map[string]any{"owner": "derived"},
	}

	merged := Merge(base, overlay, MergeOptions{AddKeys: true})

	assert.Equal(t, "derived project", merged["project"])
	assert.Equal(t, map[string]any{"owner": "derived", "year": 2020}, merged["metadata"])
}

func TestMerge_DoesNotTouchArguments(t *testing.T) {
	base := Spec{"metadata": map[string]any{"owner": "base"}}
	overlay := Spec{"metadata": map[string]any{"owner": "derived"}}

	_ = Merge(base, overlay, MergeOptions{AddKeys: true})

	assert.Equal(t, "base", base["metadata"].(map[string]any)["owner"])
	assert.Equal(t, "derived", overlay["metadata"].(map[string]any)["owner"])
}

func TestMerge_AddKeysFalse_RestrictsToBaseKeys(t *testing.T) {
	base := Spec{"present": 1}
	overlay := Spec{"present": 2, "novel": 3}

	merged := Merge(base, overlay, MergeOptions{AddKeys: false})

	assert.Equal(t, 2, merged["present"])
	assert.NotContains(t, merged, "novel")
}

func TestMerge_ExclusionsStripKeys(t *testing.T) {
	base := Spec{
		"_job_info":        []any{"stale"},
		"_fizzled_parents": []any{"stale"},
		"payload":          "keep",
	}
	overlay := Spec{"_job_info": []any{"fresh"}, "extra": 1}

	merged := Merge(base, overlay, MergeOptions{
		AddKeys:    true,
		Exclusions: MarkerFromKeys([]string{"_job_info", "_fizzled_parents"}),
	})

	// excluded keys never reach the result, whichever side carries them
	assert.NotContains(t, merged, "_job_info")
	assert.NotContains(t, merged, "_fizzled_parents")
	assert.Equal(t, "keep", merged["payload"])
	assert.Equal(t, 1, merged["extra"])
}

func TestMerge_NestedExclusions(t *testing.T) {
	base := Spec{
		"machine": map[string]any{"host": "cluster-a", "scratch": "/tmp/a"},
	}
	overlay := Spec{}

	merged := Merge(base, overlay, MergeOptions{
		AddKeys:    true,
		Exclusions: Marker{"machine": map[string]any{"scratch": true}},
	})

	machine := merged["machine"].(map[string]any)
	assert.Equal(t, "cluster-a", machine["host"])
	assert.NotContains(t, machine, "scratch")
}

func TestMerge_MergeExclusionsKeepOverlayKeysOut(t *testing.T) {
	base := Spec{
		"description": "base description",
		"metadata":    map[string]any{"expiration_date": "2022-11-08", "project": "base"},
	}
	overlay := Spec{
		"description": "overlay description",
		"metadata":    map[string]any{"expiration_date": "2030-01-01", "project": "overlay"},
	}

	merged := Merge(base, overlay, MergeOptions{
		AddKeys: true,
		MergeExclusions: Marker{
			"description": true,
			"metadata":    map[string]any{"expiration_date": true},
		},
	})

	// base values survive where the overlay is excluded from merging
	assert.Equal(t, "base description", merged["description"])
	metadata := merged["metadata"].(map[string]any)
	assert.Equal(t, "2022-11-08", metadata["expiration_date"])
	assert.Equal(t, "overlay", metadata["project"])
}
