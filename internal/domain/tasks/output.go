package tasks

import (
	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// OutputOptions are the generic output parameters every task accepts:
// where to put its output document and whether to persist it.
type OutputOptions struct {
	// StoredData persists the output with the launch record.
	StoredData bool
	// OutputKey injects the output into child specs at this key path.
	OutputKey string
	// DictMod is the dict-mod command used for the injection.
	DictMod string
	// Propagate extends the injection to all descendants.
	Propagate bool
}

// ParseOutputOptions reads the generic output parameters
// (stored_data, output, dict_mod, propagate) from a task's params.
func ParseOutputOptions(p Params, fwSpec spec.Spec) (OutputOptions, error) {
	var opts OutputOptions
	var err error

	if opts.StoredData, err = p.Bool("stored_data", false, fwSpec); err != nil {
		return opts, err
	}
	if opts.OutputKey, err = p.String("output", "", fwSpec); err != nil {
		return opts, err
	}
	if opts.DictMod, err = p.String("dict_mod", spec.ModSet, fwSpec); err != nil {
		return opts, err
	}
	if opts.Propagate, err = p.Bool("propagate", false, fwSpec); err != nil {
		return opts, err
	}
	return opts, nil
}

// Action builds the task action carrying output according to the
// options: stored data and/or a dict-mod injection into child specs.
func (o OutputOptions) Action(output any) *Action {
	if doc, ok := output.(spec.Spec); ok {
		output = map[string]any(doc)
	}
	action := &Action{Propagate: o.Propagate}
	if o.StoredData {
		action.StoredData = spec.Spec{"output": output}
	}
	if o.OutputKey != "" {
		action.ModSpec = []spec.Mod{
			{o.DictMod: {o.OutputKey: output}},
		}
	}
	return action
}
