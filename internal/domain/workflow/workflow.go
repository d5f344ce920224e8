package workflow

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jotelha/jlhfw/internal/domain/spec"
)

// Workflow is a directed acyclic graph of fireworks. Links map a
// firework id to the ids of its children.
type Workflow struct {
	Name     string        `json:"name"`
	FWs      []*Firework   `json:"fws"`
	Links    map[int][]int `json:"links"`
	Metadata spec.Spec     `json:"metadata,omitempty"`
}

// New builds a workflow and validates its link structure.
func New(name string, fws []*Firework, links map[int][]int) (*Workflow, error) {
	if len(fws) == 0 {
		return nil, fmt.Errorf("workflow needs at least one firework")
	}

	byID := make(map[int]*Firework, len(fws))
	for _, fw := range fws {
		if _, dup := byID[fw.FWID]; dup {
			return nil, fmt.Errorf("duplicate firework id %d", fw.FWID)
		}
		byID[fw.FWID] = fw
	}

	if links == nil {
		links = map[int][]int{}
	}
	for parent, children := range links {
		if _, ok := byID[parent]; !ok {
			return nil, fmt.Errorf("link references unknown parent firework %d", parent)
		}
		for _, child := range children {
			if _, ok := byID[child]; !ok {
				return nil, fmt.Errorf("link references unknown child firework %d", child)
			}
		}
	}
	for _, fw := range fws {
		if _, ok := links[fw.FWID]; !ok {
			links[fw.FWID] = []int{}
		}
	}

	return &Workflow{Name: name, FWs: fws, Links: links}, nil
}

// Single wraps one firework into a workflow.
func Single(fw *Firework) *Workflow {
	wf, _ := New(fw.Name, []*Firework{fw}, nil)
	return wf
}

// ByID returns the firework with the given id, or nil.
func (wf *Workflow) ByID(id int) *Firework {
	for _, fw := range wf.FWs {
		if fw.FWID == id {
			return fw
		}
	}
	return nil
}

// RootIDs returns the ids of fireworks without parents, ascending.
func (wf *Workflow) RootIDs() []int {
	hasParent := map[int]bool{}
	for _, children := range wf.Links {
		for _, child := range children {
			hasParent[child] = true
		}
	}
	var roots []int
	for _, fw := range wf.FWs {
		if !hasParent[fw.FWID] {
			roots = append(roots, fw.FWID)
		}
	}
	sort.Ints(roots)
	return roots
}

// LeafIDs returns the ids of fireworks without children, ascending.
func (wf *Workflow) LeafIDs() []int {
	var leaves []int
	for _, fw := range wf.FWs {
		if len(wf.Links[fw.FWID]) == 0 {
			leaves = append(leaves, fw.FWID)
		}
	}
	sort.Ints(leaves)
	return leaves
}

// ReassignIDs rewrites firework ids and all links according to remap.
// Ids absent from remap keep their value.
func (wf *Workflow) ReassignIDs(remap map[int]int) {
	mapped := func(id int) int {
		if newID, ok := remap[id]; ok {
			return newID
		}
		return id
	}

	for _, fw := range wf.FWs {
		fw.FWID = mapped(fw.FWID)
	}

	links := make(map[int][]int, len(wf.Links))
	for parent, children := range wf.Links {
		newChildren := make([]int, len(children))
		for i, child := range children {
			newChildren[i] = mapped(child)
		}
		links[mapped(parent)] = newChildren
	}
	wf.Links = links
}

// Append merges other into wf, linking each id in parentIDs to the
// roots of other. An empty parentIDs merges other as an independent
// subgraph (parallel roots), matching append semantics of workflow
// documents on the host engine.
func (wf *Workflow) Append(other *Workflow, parentIDs []int) error {
	existing := make(map[int]bool, len(wf.FWs))
	for _, fw := range wf.FWs {
		existing[fw.FWID] = true
	}
	for _, fw := range other.FWs {
		if existing[fw.FWID] {
			return fmt.Errorf("appending workflow reuses firework id %d", fw.FWID)
		}
	}

	otherRoots := other.RootIDs()

	wf.FWs = append(wf.FWs, other.FWs...)
	for parent, children := range other.Links {
		wf.Links[parent] = append(wf.Links[parent], children...)
	}
	for _, parent := range parentIDs {
		if !existing[parent] {
			return fmt.Errorf("append parent %d is not part of the workflow", parent)
		}
		wf.Links[parent] = append(wf.Links[parent], otherRoots...)
	}
	return nil
}

// FromDocument builds a workflow from an appendable document: either a
// single firework (discriminated by its "spec" field) or a full
// workflow document with "fws" and "links".
func FromDocument(doc spec.Spec) (*Workflow, error) {
	if _, isFirework := doc["spec"]; isFirework {
		fw, err := FireworkFromDocument(doc)
		if err != nil {
			return nil, err
		}
		return Single(fw), nil
	}

	fwsValue, ok := doc["fws"].([]any)
	if !ok {
		return nil, fmt.Errorf("workflow document lacks fws list")
	}

	fws := make([]*Firework, 0, len(fwsValue))
	for i, fwValue := range fwsValue {
		fwDoc, ok := fwValue.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("fws[%d] is not a document, got %T", i, fwValue)
		}
		fw, err := FireworkFromDocument(spec.Spec(fwDoc))
		if err != nil {
			return nil, fmt.Errorf("fws[%d]: %w", i, err)
		}
		fws = append(fws, fw)
	}

	links := map[int][]int{}
	if linksValue, ok := doc["links"].(map[string]any); ok {
		for parentKey, childrenValue := range linksValue {
			parent, err := strconv.Atoi(parentKey)
			if err != nil {
				return nil, fmt.Errorf("link parent %q is not an integer", parentKey)
			}
			children, ok := childrenValue.([]any)
			if !ok {
				return nil, fmt.Errorf("links[%q] is not a list, got %T", parentKey, childrenValue)
			}
			for _, childValue := range children {
				child, err := toInt(childValue)
				if err != nil {
					return nil, fmt.Errorf("links[%q]: %w", parentKey, err)
				}
				links[parent] = append(links[parent], child)
			}
		}
	}

	name := "unnamed workflow"
	if docName, ok := doc["name"].(string); ok {
		name = docName
	}

	wf, err := New(name, fws, links)
	if err != nil {
		return nil, err
	}
	if metadata, ok := doc["metadata"].(map[string]any); ok {
		wf.Metadata = spec.Spec(metadata)
	}
	return wf, nil
}

// Document returns the workflow's document form.
func (wf *Workflow) Document() spec.Spec {
	fws := make([]any, len(wf.FWs))
	for i, fw := range wf.FWs {
		fws[i] = map[string]any(fw.Document())
	}
	links := make(map[string]any, len(wf.Links))
	for parent, children := range wf.Links {
		list := make([]any, len(children))
		for i, child := range children {
			list[i] = child
		}
		links[strconv.Itoa(parent)] = list
	}
	doc := spec.Spec{
		"name":  wf.Name,
		"fws":   fws,
		"links": links,
	}
	if wf.Metadata != nil {
		doc["metadata"] = map[string]any(wf.Metadata)
	}
	return doc
}

// ApplyUpdates applies updateSpec and mods to the workflow's root
// fireworks, the insertion-time counterpart of the host engine's child
// spec updates. With propagate, updates walk the link graph down to the
// leaves; a visited set keeps diamond dependencies from being updated
// twice. Returns the ids of updated fireworks.
func (wf *Workflow) ApplyUpdates(updateSpec spec.Spec, mods []spec.Mod, propagate bool) ([]int, error) {
	var updated []int
	visited := map[int]bool{}

	var apply func(ids []int) error
	apply = func(ids []int) error {
		for _, id := range ids {
			if visited[id] {
				continue
			}
			visited[id] = true

			fw := wf.ByID(id)
			if fw == nil {
				return fmt.Errorf("workflow links reference unknown firework %d", id)
			}
			for key, value := range updateSpec {
				fw.Spec[key] = value
			}
			for _, mod := range mods {
				if err := spec.Apply(mod, fw.Spec); err != nil {
					return fmt.Errorf("firework %d: %w", id, err)
				}
			}
			updated = append(updated, id)

			if propagate {
				if err := apply(wf.Links[id]); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := apply(wf.RootIDs()); err != nil {
		return nil, err
	}
	sort.Ints(updated)
	return updated, nil
}

func toInt(v any) (int, error) {
	switch typed := v.(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case float64:
		return int(typed), nil
	default:
		return 0, fmt.Errorf("value %v is not an integer", v)
	}
}
