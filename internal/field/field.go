package field

import (
	"fmt"

	"github.com/alexhholmes/layoutdecl/internal/parser"
)

// StaticOffsets is the only offsets expression type currently declared.
const StaticOffsets = "StaticOffsets"

// MaxOffset is the largest start or end offset a field may declare.
const MaxOffset = parser.MaxOffset

// MaxNameLength bounds the label of a field, in characters.
const MaxNameLength = 35

// Offsets describes where a field sits in the record buffer. Both bounds
// are inclusive, so a field spans Size() positions.
type Offsets struct {
	Type  string `json:"type" yaml:"type"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// Size returns the number of positions covered by the range.
func (o Offsets) Size() int {
	return o.End - o.Start + 1
}

func (o Offsets) String() string {
	return fmt.Sprintf("%d:%d(%d)", o.Start, o.End, o.Size())
}

// Overlaps reports whether o and other share at least one position.
func (o Offsets) Overlaps(other Offsets) bool {
	return o.Start <= other.End && other.Start <= o.End
}

// Field is an accepted, validated field declaration. Values are only
// produced by a Validator; the ID never changes once assigned.
type Field struct {
	ID          string            `json:"id" yaml:"id"`
	Kind        Kind              `json:"type" yaml:"type"`
	Name        string            `json:"label" yaml:"label"`
	Offsets     Offsets           `json:"offsetsExpression" yaml:"offsetsExpression"`
	Constraints map[string]string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Clone returns a copy of f that shares no mutable state with it.
func (f Field) Clone() Field {
	f.Constraints = cloneConstraints(f.Constraints)
	return f
}

// cloneConstraints copies m, collapsing an empty mapping to nil so that it
// is left out of the export.
func cloneConstraints(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
