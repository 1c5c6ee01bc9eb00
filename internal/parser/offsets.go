package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxOffset is the largest offset accepted. It keeps range sizes and record
// lengths well inside int.
const MaxOffset = math.MaxInt32

// ParseOffset parses a single record offset written as decimal text.
// Surrounding whitespace is ignored; signs, fractions, values above
// MaxOffset and anything that is not a plain non-negative integer are
// rejected.
//
// Examples:
//
//	"0"    → 0
//	" 12 " → 12
//	"-1"   → error
//	"1e3"  → error
//	"4294967296" → error (above MaxOffset)
func ParseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty offset")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid offset: %s", s)
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > MaxOffset {
		return 0, fmt.Errorf("offset out of range: %s (max %d)", s, MaxOffset)
	}
	return int(n), nil
}

// ParseRange splits the listing notation "start:end" into its raw bounds.
// The bounds are returned as text so the field validator stays the single
// place that decides whether they are acceptable.
//
// Examples:
//
//	"0:3"     → "0", "3"
//	"10 : 12" → "10", "12"
//	"4"       → error
func ParseRange(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", fmt.Errorf("empty range")
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid range: %s (expected start:end)", s)
	}

	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if start == "" || end == "" {
		return "", "", fmt.Errorf("invalid range: %s (expected start:end)", s)
	}

	return start, end, nil
}
