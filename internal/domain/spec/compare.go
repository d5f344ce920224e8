package spec

import (
	"reflect"
)

// Compare reports whether source agrees with target under the guidance
// of marker. A true marker leaf requires the values at that position to
// exist in source and be deeply equal; a false leaf ignores the
// position; a nested marker recurses. A nil marker compares source
// against the full shape of target.
func Compare(source, target any, marker Marker) bool {
	targetDoc, targetIsDoc := asDocument(target)
	if marker == nil {
		if targetIsDoc {
			marker = MakeMarker(targetDoc)
		} else {
			return equalValue(source, target)
		}
	}
	sourceDoc, sourceIsDoc := asDocument(source)
	if !sourceIsDoc || !targetIsDoc {
		return equalValue(source, target)
	}

	for key, markerValue := range marker {
		switch typed := markerValue.(type) {
		case bool:
			if !typed {
				continue
			}
			sourceValue, present := sourceDoc[key]
			if !present {
				return false
			}
			targetValue, present := targetDoc[key]
			if !present {
				return false
			}
			if !equalValue(sourceValue, targetValue) {
				return false
			}
		case map[string]any:
			if !Compare(sourceDoc[key], targetDoc[key], Marker(typed)) {
				return false
			}
		case Marker:
			if !Compare(sourceDoc[key], targetDoc[key], typed) {
				return false
			}
		}
	}
	return true
}

func equalValue(a, b any) bool {
	// Numeric leaves may arrive as different Go types depending on their
	// JSON decoding path.
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}

func normalizeValue(v any) any {
	if doc, ok := asDocument(v); ok {
		return doc
	}
	return v
}
