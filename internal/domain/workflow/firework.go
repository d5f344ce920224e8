package workflow

import (
	"fmt"
	"time"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// Firework is a single node of a workflow: a named spec that the host
// engine launches as one unit of work. Task descriptions live under the
// reserved "_tasks" spec key, as in workflow documents on the wire.
type Firework struct {
	FWID      int       `json:"fw_id"`
	Name      string    `json:"name"`
	Spec      spec.Spec `json:"spec"`
	CreatedOn time.Time `json:"created_on,omitempty"`
	UpdatedOn time.Time `json:"updated_on,omitempty"`
}

// NewFirework creates a firework with its own copy of fwSpec.
func NewFirework(fwID int, name string, fwSpec spec.Spec) *Firework {
	now := time.Now().UTC()
	return &Firework{
		FWID:      fwID,
		Name:      name,
		Spec:      spec.Clone(fwSpec),
		CreatedOn: now,
		UpdatedOn: now,
	}
}

// FireworkFromDocument builds a firework from its document form. The
// document must carry a "spec" field; "fw_id" and "name" are optional.
func FireworkFromDocument(doc spec.Spec) (*Firework, error) {
	specValue, ok := doc["spec"]
	if !ok {
		return nil, fmt.Errorf("firework document lacks a spec field")
	}
	fwSpec, ok := specValue.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("firework spec must be a document, got %T", specValue)
	}

	fw := NewFirework(0, "unnamed firework", spec.Spec(fwSpec))
	if name, ok := doc["name"].(string); ok {
		fw.Name = name
	}
	if id, err := intField(doc, "fw_id"); err == nil {
		fw.FWID = id
	}
	return fw, nil
}

// Document returns the firework's document form.
func (fw *Firework) Document() spec.Spec {
	return spec.Spec{
		"fw_id": fw.FWID,
		"name":  fw.Name,
		"spec":  map[string]any(spec.Clone(fw.Spec)),
	}
}

func intField(doc spec.Spec, key string) (int, error) {
	value, ok := doc[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch typed := value.(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case float64:
		return int(typed), nil
	default:
		return 0, fmt.Errorf("field %q is not an integer, got %T", key, value)
	}
}
