package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var constraintKeyRe = regexp.MustCompile(`^[A-Za-z_][\w.-]*$`)

// ParseConstraints parses key=value pairs into a constraints mapping.
//
// Each entry holds exactly one pair; the value runs to the end of the entry
// and may contain spaces or further '=' signs:
//
//	description=Age in years
//	unit=years
//
// Keys must be unique. An empty input yields a nil mapping.
func ParseConstraints(pairs []string) (map[string]string, error) {
	var out map[string]string

	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}

		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid constraint: %s (expected key=value)", pair)
		}

		key := strings.TrimSpace(kv[0])
		if !constraintKeyRe.MatchString(key) {
			return nil, fmt.Errorf("invalid constraint key: %q", key)
		}

		if out == nil {
			out = make(map[string]string)
		}
		if _, exists := out[key]; exists {
			return nil, fmt.Errorf("duplicate constraint key: %s", key)
		}
		out[key] = strings.TrimSpace(kv[1])
	}

	return out, nil
}
