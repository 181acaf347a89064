// Package model defines the core value types shared across lelesmart.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownValue is returned when a categorical value cannot be parsed.
var ErrUnknownValue = errors.New("unknown value")

// option describes one member of a categorical enumeration.
type option struct {
	name  string
	label string
}

// parseOption resolves s against the numeric code, the English name or the
// Indonesian label of each option. Matching ignores case and surrounding space.
func parseOption[T ~int](kind, s string, opts map[T]option) (T, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		if _, ok := opts[T(code)]; ok {
			return T(code), nil
		}
		return 0, fmt.Errorf("%w: %s code %d", ErrUnknownValue, kind, code)
	}

	norm := normalize(s)
	for v, o := range opts {
		if normalize(o.name) == norm || normalize(o.label) == norm {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownValue, kind, s)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

func optionName[T ~int](v T, opts map[T]option) string {
	if o, ok := opts[v]; ok {
		return o.name
	}
	return fmt.Sprintf("Unknown(%d)", int(v))
}

func optionLabel[T ~int](v T, opts map[T]option) string {
	if o, ok := opts[v]; ok {
		return o.label
	}
	return strconv.Itoa(int(v))
}
