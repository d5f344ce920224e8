package spec

import (
	"fmt"
)

// Dict-mod commands, a subset of the MongoDB-flavoured update language
// used for workflow spec modifications.
const (
	ModSet     = "_set"
	ModUnset   = "_unset"
	ModPush    = "_push"
	ModPushAll = "_push_all"
	ModInc     = "_inc"
	ModPop     = "_pop"
)

// Mod is a single spec modification: {command: {key path: argument}}.
// Example: {"_set": {"metadata->project": "surface science"}}.
type Mod map[string]map[string]any

// Apply mutates s according to mod. Commands within a Mod are applied in
// unspecified order; callers needing ordering use one Mod per command.
func Apply(mod Mod, s Spec) error {
	for command, args := range mod {
		for path, arg := range args {
			if err := applyCommand(command, path, arg, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyCommand(command, path string, arg any, s Spec) error {
	switch command {
	case ModSet:
		SetNested(s, path, arg)
	case ModUnset:
		if err := DeleteNested(s, path); err != nil {
			return fmt.Errorf("_unset %q: %w", path, err)
		}
	case ModPush:
		list, err := listAt(s, path)
		if err != nil {
			return fmt.Errorf("_push %q: %w", path, err)
		}
		SetNested(s, path, append(list, arg))
	case ModPushAll:
		items, ok := arg.([]any)
		if !ok {
			return fmt.Errorf("_push_all %q: argument must be a list, got %T", path, arg)
		}
		list, err := listAt(s, path)
		if err != nil {
			return fmt.Errorf("_push_all %q: %w", path, err)
		}
		SetNested(s, path, append(list, items...))
	case ModInc:
		delta, ok := toFloat(arg)
		if !ok {
			return fmt.Errorf("_inc %q: argument must be numeric, got %T", path, arg)
		}
		current := 0.0
		if existing, err := GetNested(s, path); err == nil {
			current, ok = toFloat(existing)
			if !ok {
				return fmt.Errorf("_inc %q: existing value is not numeric, got %T", path, existing)
			}
		}
		SetNested(s, path, current+delta)
	case ModPop:
		list, err := listAt(s, path)
		if err != nil {
			return fmt.Errorf("_pop %q: %w", path, err)
		}
		if len(list) == 0 {
			return nil
		}
		direction, ok := toFloat(arg)
		if !ok {
			return fmt.Errorf("_pop %q: argument must be 1 or -1, got %T", path, arg)
		}
		if direction < 0 {
			SetNested(s, path, list[1:])
		} else {
			SetNested(s, path, list[:len(list)-1])
		}
	default:
		return fmt.Errorf("unknown dict-mod command %q", command)
	}
	return nil
}

// listAt returns the list at path, or an empty list when the path is absent.
func listAt(s Spec, path string) ([]any, error) {
	value, err := GetNested(s, path)
	if err != nil {
		return []any{}, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("value at path is not a list, got %T", value)
	}
	return list, nil
}

func toFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}
