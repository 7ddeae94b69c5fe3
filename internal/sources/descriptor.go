package sources

import (
	"fmt"
	"sort"
	"strings"
)

// DescriptorKind distinguishes structured columns from document fields.
type DescriptorKind string

// Descriptor kinds.
const (
	KindColumn DescriptorKind = "column"
	KindField  DescriptorKind = "field"
)

// Descriptor is the normalized name/type unit derived from a raw source
// column or document field. Immutable once built; consumed only by the
// prompt compiler.
type Descriptor struct {
	Name string         `json:"name"`
	Type string         `json:"type,omitempty"`
	Kind DescriptorKind `json:"kind"`
}

// DescribeValue builds the unstructured descriptor block for an arbitrary
// sampled value: a description string passes through as-is, a list of field
// names becomes one line per field, and anything else falls back to its
// textual form.
func DescribeValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []string:
		lines := make([]string, len(value))
		for i, field := range value {
			lines[i] = "- " + field
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		if desc, ok := value["description"].(string); ok {
			return desc
		}
		return fieldLines(value)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func fieldLines(doc map[string]any) string {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = "- " + name
	}
	return strings.Join(lines, "\n")
}
