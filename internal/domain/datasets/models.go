package datasets

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ManifestItem describes a single file within a dataset.
type ManifestItem struct {
	Hash         string  `json:"hash"`
	Relpath      string  `json:"relpath"`
	SizeInBytes  int64   `json:"size_in_bytes"`
	UTCTimestamp float64 `json:"utc_timestamp"`
}

// Manifest is the item inventory of a dataset, keyed by item id.
type Manifest struct {
	DtoolcoreVersion string                  `json:"dtoolcore_version"`
	HashFunction     string                  `json:"hash_function" validate:"required"`
	Items            map[string]ManifestItem `json:"items" validate:"required"`
}

// Validate checks that the manifest carries the fields consumers rely on.
func (m *Manifest) Validate() error {
	validate := validator.New()

	err := validate.Struct(m)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// Document returns the manifest in its document form, the shape task
// outputs and spec injections use.
func (m *Manifest) Document() map[string]any {
	items := make(map[string]any, len(m.Items))
	for id, item := range m.Items {
		items[id] = map[string]any{
			"hash":          item.Hash,
			"relpath":       item.Relpath,
			"size_in_bytes": item.SizeInBytes,
			"utc_timestamp": item.UTCTimestamp,
		}
	}
	return map[string]any{
		"dtoolcore_version": m.DtoolcoreVersion,
		"hash_function":     m.HashFunction,
		"items":             items,
	}
}
