package field

import "strings"

// Kind is the type tag of a declared field. The set is open: a Validator
// accepts whatever kinds it was built with.
type Kind string

const (
	Number Kind = "Number"
	String Kind = "String"
)

// DefaultKinds are the kinds every Validator accepts unless told otherwise.
var DefaultKinds = []Kind{Number, String}

func (k Kind) String() string {
	return string(k)
}

// ParseKind matches s against kinds case-insensitively, returning the
// canonical spelling.
func ParseKind(s string, kinds []Kind) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range kinds {
		if strings.EqualFold(s, string(k)) {
			return k, true
		}
	}
	return "", false
}
