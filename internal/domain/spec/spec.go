package spec

import (
	"errors"
	"fmt"
	"strings"
)

// PathSeparator separates key segments in nested key paths, e.g. "a->b->c".
const PathSeparator = "->"

// ErrPathNotFound is returned when a nested key path does not resolve.
var ErrPathNotFound = errors.New("key path not found")

// Spec is a nested, JSON-compatible string-keyed document. Every task
// receives its inputs and publishes its outputs through a Spec.
type Spec map[string]any

// SplitPath splits an arrow-separated key path into its segments.
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// GetNested resolves an arrow-separated key path within s.
// It returns ErrPathNotFound (wrapped) when any segment is missing or a
// non-leaf segment is not a nested document.
func GetNested(s Spec, path string) (any, error) {
	segments := SplitPath(path)
	var current any = map[string]any(s)
	for i, segment := range segments {
		doc, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a nested document at %q", ErrPathNotFound, strings.Join(segments[:i], PathSeparator), path)
		}
		current, ok = doc[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
		}
	}
	return current, nil
}

// SetNested sets the value at an arrow-separated key path within s,
// creating intermediate documents as needed. A non-document value on the
// way is replaced by a document, matching set_nested_dict_value semantics.
func SetNested(s Spec, path string, value any) {
	segments := SplitPath(path)
	current := map[string]any(s)
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// DeleteNested removes the value at an arrow-separated key path within s.
func DeleteNested(s Spec, path string) error {
	segments := SplitPath(path)
	current := map[string]any(s)
	for i, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q", ErrPathNotFound, strings.Join(segments[:i+1], PathSeparator))
		}
		current = next
	}
	leaf := segments[len(segments)-1]
	if _, ok := current[leaf]; !ok {
		return fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	delete(current, leaf)
	return nil
}

// FromSpec resolves parameter indirection: a parameter given as
// {"key": "some->nested->path"} is replaced by the value found at that
// path within fwSpec. Any other parameter passes through unchanged.
func FromSpec(param any, fwSpec Spec) (any, error) {
	doc, ok := param.(map[string]any)
	if !ok {
		return param, nil
	}
	pathValue, ok := doc["key"]
	if !ok {
		return param, nil
	}
	path, ok := pathValue.(string)
	if !ok {
		return nil, fmt.Errorf("indirection key must be a string, got %T", pathValue)
	}
	return GetNested(fwSpec, path)
}

// Clone returns a deep copy of s. Nested documents and slices are copied,
// scalar leaves are shared.
func Clone(s Spec) Spec {
	if s == nil {
		return nil
	}
	return Spec(cloneValue(map[string]any(s)).(map[string]any))
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, nested := range typed {
			out[k] = cloneValue(nested)
		}
		return out
	case Spec:
		return cloneValue(map[string]any(typed))
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = cloneValue(nested)
		}
		return out
	default:
		return v
	}
}

// asDocument normalizes Spec and map[string]any values to map[string]any.
func asDocument(v any) (map[string]any, bool) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, true
	case Spec:
		return map[string]any(typed), true
	default:
		return nil, false
	}
}
