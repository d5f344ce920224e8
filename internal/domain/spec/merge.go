package spec

// Marker is a nested map mirroring the shape of a document. A boolean
// true leaf marks the subtree at that position; nested maps scope the
// marking to deeper keys. Markers drive merge exclusions and guided
// comparison.
type Marker map[string]any

// MarkerFromKeys builds a flat marker with a true leaf per key.
func MarkerFromKeys(keys []string) Marker {
	m := make(Marker, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// MakeMarker derives a marker from a document with every leaf set true,
// so the whole document shape participates in comparison.
func MakeMarker(doc map[string]any) Marker {
	m := make(Marker, len(doc))
	for k, v := range doc {
		if nested, ok := asDocument(v); ok {
			m[k] = map[string]any(MakeMarker(nested))
		} else {
			m[k] = true
		}
	}
	return m
}

func markerLeafTrue(m Marker, key string) bool {
	leaf, ok := m[key].(bool)
	return ok && leaf
}

func markerSub(m Marker, key string) Marker {
	if nested, ok := asDocument(m[key]); ok {
		return Marker(nested)
	}
	return nil
}

// MergeOptions controls Merge.
//
// Exclusions drops marked keys from both sides, so they never reach
// the merged result. A nested marker scopes the exclusion to deeper
// keys. MergeExclusions keeps marked overlay keys out of the merge
// entirely; base values for those keys are left untouched. AddKeys,
// when false, restricts the merge to keys already present in the base.
type MergeOptions struct {
	AddKeys         bool
	Exclusions      Marker
	MergeExclusions Marker
}

// Merge recursively merges overlay into base and returns a new document;
// neither argument is modified. Nested documents merge key-wise with the
// overlay winning on conflicts, matching the recovery task's dict merge.
func Merge(base, overlay Spec, opts MergeOptions) Spec {
	baseDoc := map[string]any{}
	if base != nil {
		baseDoc = cloneValue(map[string]any(base)).(map[string]any)
	}
	overlayDoc := map[string]any{}
	if overlay != nil {
		overlayDoc = cloneValue(map[string]any(overlay)).(map[string]any)
	}
	return Spec(mergeDocs(baseDoc, overlayDoc, opts))
}

func mergeDocs(dst, src map[string]any, opts MergeOptions) map[string]any {
	for k := range opts.Exclusions {
		if markerLeafTrue(opts.Exclusions, k) {
			delete(dst, k)
			delete(src, k)
		}
	}

	if !opts.AddKeys {
		restricted := make(map[string]any, len(dst))
		for k := range dst {
			if v, present := src[k]; present {
				restricted[k] = v
			}
		}
		src = restricted
	}

	// Descend into base-only nested documents so scoped exclusions apply
	// even where the overlay contributes nothing.
	for k, v := range dst {
		if _, isDoc := asDocument(v); isDoc {
			if _, present := src[k]; !present {
				src[k] = map[string]any{}
			}
		}
	}

	for k, v := range src {
		lowerExclusions := markerSub(opts.Exclusions, k)

		dstDoc, dstIsDoc := asDocument(dst[k])
		srcDoc, srcIsDoc := asDocument(v)

		if dstIsDoc && srcIsDoc {
			switch {
			case opts.MergeExclusions == nil, opts.MergeExclusions[k] == nil:
				dst[k] = mergeDocs(dstDoc, srcDoc, MergeOptions{
					AddKeys:    opts.AddKeys,
					Exclusions: lowerExclusions,
				})
			case !markerLeafTrue(opts.MergeExclusions, k):
				dst[k] = mergeDocs(dstDoc, srcDoc, MergeOptions{
					AddKeys:         opts.AddKeys,
					Exclusions:      lowerExclusions,
					MergeExclusions: markerSub(opts.MergeExclusions, k),
				})
			}
			continue
		}

		if opts.MergeExclusions == nil || opts.MergeExclusions[k] == nil {
			if srcIsDoc && lowerExclusions != nil {
				// overlay-only subtree, scoped exclusions still apply
				dst[k] = mergeDocs(map[string]any{}, srcDoc, MergeOptions{
					AddKeys:    true,
					Exclusions: lowerExclusions,
				})
				continue
			}
			dst[k] = v
		}
	}

	return dst
}
