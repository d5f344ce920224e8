package tasks

import (
	"fmt"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// Params gives typed access to a task's raw parameter document. Every
// getter applies spec indirection first: a parameter written as
// {"key": "nested->path"} resolves against the current firework spec,
// so workflows can defer parameter values to launch time.
type Params struct {
	raw spec.Spec
}

// NewParams wraps a raw parameter document.
func NewParams(raw spec.Spec) Params {
	if raw == nil {
		raw = spec.Spec{}
	}
	return Params{raw: raw}
}

// Raw returns the underlying parameter document.
func (p Params) Raw() spec.Spec { return p.raw }

// Has reports whether the parameter is present.
func (p Params) Has(key string) bool {
	_, ok := p.raw[key]
	return ok
}

// Value resolves the parameter with indirection, or def when absent.
func (p Params) Value(key string, def any, fwSpec spec.Spec) (any, error) {
	value, ok := p.raw[key]
	if !ok || value == nil {
		return def, nil
	}
	resolved, err := spec.FromSpec(value, fwSpec)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", key, err)
	}
	return resolved, nil
}

// Bool resolves a boolean parameter.
func (p Params) Bool(key string, def bool, fwSpec spec.Spec) (bool, error) {
	value, err := p.Value(key, def, fwSpec)
	if err != nil {
		return false, err
	}
	typed, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q: expected bool, got %T", key, value)
	}
	return typed, nil
}

// Int resolves an integer parameter, tolerating JSON float decoding.
func (p Params) Int(key string, def int, fwSpec spec.Spec) (int, error) {
	value, err := p.Value(key, def, fwSpec)
	if err != nil {
		return 0, err
	}
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case float64:
		return int(typed), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected integer, got %T", key, value)
	}
}

// String resolves a string parameter.
func (p Params) String(key, def string, fwSpec spec.Spec) (string, error) {
	value, err := p.Value(key, def, fwSpec)
	if err != nil {
		return "", err
	}
	typed, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q: expected string, got %T", key, value)
	}
	return typed, nil
}

// StringSlice resolves a parameter that may be a single string or a
// list of strings, normalizing to a slice. This mirrors glob-pattern
// parameters that accept both shapes.
func (p Params) StringSlice(key string, def []string, fwSpec spec.Spec) ([]string, error) {
	value, err := p.Value(key, nil, fwSpec)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return def, nil
	}
	switch typed := value.(type) {
	case string:
		return []string{typed}, nil
	case []string:
		return typed, nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				// non-string entries are skipped, as glob handling in
				// the recovery task tolerates mixed lists
				continue
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q: expected string or list of strings, got %T", key, value)
	}
}

// Document resolves a nested-document parameter.
func (p Params) Document(key string, fwSpec spec.Spec) (spec.Spec, error) {
	value, ok := p.raw[key]
	if !ok || value == nil {
		return nil, nil
	}
	typed, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q: expected document, got %T", key, value)
	}
	return spec.Spec(typed), nil
}

// Marker resolves a parameter that is either a list of key names or a
// nested exclusion marker document.
func (p Params) Marker(key string, def spec.Marker, fwSpec spec.Spec) (spec.Marker, error) {
	value, err := p.Value(key, nil, fwSpec)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return def, nil
	}
	switch typed := value.(type) {
	case map[string]any:
		return spec.Marker(typed), nil
	case []any:
		keys := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q: marker list entries must be strings, got %T", key, item)
			}
			keys = append(keys, s)
		}
		return spec.MarkerFromKeys(keys), nil
	case []string:
		return spec.MarkerFromKeys(typed), nil
	default:
		return nil, fmt.Errorf("parameter %q: expected marker document or key list, got %T", key, value)
	}
}
