package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ConfidenceLevel is the user-facing choice translated into a certainty factor
// before the engine sees it.
type ConfidenceLevel int

// Confidence levels.
const (
	Sure     ConfidenceLevel = 1
	LessSure ConfidenceLevel = 2
	Unsure   ConfidenceLevel = 3
)

var confidenceLevels = map[ConfidenceLevel]option{
	Sure:     {name: "Sure", label: "Yakin"},
	LessSure: {name: "LessSure", label: "Kurang Yakin"},
	Unsure:   {name: "Unsure", label: "Tidak Yakin"},
}

var confidenceFactors = map[ConfidenceLevel]float64{
	Sure:     1.0,
	LessSure: 0.8,
	Unsure:   0.5,
}

// ConfidenceLevels lists the levels from most to least certain.
func ConfidenceLevels() []ConfidenceLevel {
	return []ConfidenceLevel{Sure, LessSure, Unsure}
}

func (c ConfidenceLevel) String() string { return optionName(c, confidenceLevels) }

// Label returns the Indonesian form label.
func (c ConfidenceLevel) Label() string { return optionLabel(c, confidenceLevels) }

// Valid reports whether c is a known level.
func (c ConfidenceLevel) Valid() bool {
	_, ok := confidenceLevels[c]
	return ok
}

// Factor returns the certainty factor for the level, or 0 for an unknown level.
func (c ConfidenceLevel) Factor() float64 {
	return confidenceFactors[c]
}

// ParseConfidenceLevel parses a level code, name or label.
func ParseConfidenceLevel(s string) (ConfidenceLevel, error) {
	return parseOption("confidence level", s, confidenceLevels)
}

// ParseConfidence resolves s to a certainty factor. It accepts a level name or
// label ("sure", "kurang yakin") or a decimal in [0,1] such as "0.8". Level
// codes are not accepted here since "1" is ambiguous with a factor of 1.0.
func ParseConfidence(s string) (float64, error) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		if math.IsNaN(f) || f < 0 || f > 1 {
			return 0, fmt.Errorf("%w: confidence %v outside [0,1]", ErrUnknownValue, f)
		}
		return f, nil
	}

	norm := normalize(s)
	for level, o := range confidenceLevels {
		if normalize(o.name) == norm || normalize(o.label) == norm {
			return level.Factor(), nil
		}
	}
	return 0, fmt.Errorf("%w: confidence %q", ErrUnknownValue, s)
}
