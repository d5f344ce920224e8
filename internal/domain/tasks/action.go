package tasks

import (
	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/workflow"
)

// Action is what a task hands back to the execution engine: data to
// store, spec updates for children and dynamic workflow insertions.
type Action struct {
	// StoredData is persisted with the launch record.
	StoredData spec.Spec `json:"stored_data,omitempty"`

	// UpdateSpec is merged into the specs of child fireworks.
	UpdateSpec spec.Spec `json:"update_spec,omitempty"`

	// ModSpec holds dict-mod commands applied to child specs in order.
	ModSpec []spec.Mod `json:"mod_spec,omitempty"`

	// Additions are appended to the workflow independent of the
	// current firework's children.
	Additions []*workflow.Workflow `json:"additions,omitempty"`

	// Detours are inserted between the current firework and its
	// children.
	Detours []*workflow.Workflow `json:"detours,omitempty"`

	// Propagate extends UpdateSpec/ModSpec beyond direct children down
	// to the workflow's leaves.
	Propagate bool `json:"propagate,omitempty"`

	// ExitWorkflow stops the entire workflow after this launch.
	ExitWorkflow bool `json:"exit,omitempty"`

	// DefuseChildren marks the current firework's children as defused.
	DefuseChildren bool `json:"defuse_children,omitempty"`
}
