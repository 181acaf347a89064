package model

import (
	"fmt"
	"strings"
)

// Status is the constraint satisfied by every stage's result vocabulary.
type Status interface {
	~string
	Label() string
	Valid() bool
}

// ConditionResult is the outcome of one classification stage.
type ConditionResult[S Status] struct {
	Status     S       `json:"status"`
	Confidence float64 `json:"confidence"`
}

// SeedStatus is the health verdict for a seed fish.
type SeedStatus string

// Seed statuses.
const (
	Healthy     SeedStatus = "Healthy"
	Unhealthy   SeedStatus = "Unhealthy"
	SeedInvalid SeedStatus = "Invalid"
)

var seedLabels = map[SeedStatus]string{
	Healthy:     "Sehat",
	Unhealthy:   "Tidak Sehat",
	SeedInvalid: "Tidak Valid",
}

// Label returns the Indonesian display label.
func (s SeedStatus) Label() string { return statusLabel(s, seedLabels) }

// Valid reports whether s is part of the vocabulary.
func (s SeedStatus) Valid() bool {
	_, ok := seedLabels[s]
	return ok
}

// ParseSeedStatus accepts the canonical name or the Indonesian label.
func ParseSeedStatus(s string) (SeedStatus, error) { return parseStatus("seed status", s, seedLabels) }

// UnmarshalText accepts the canonical name or the Indonesian label. Unknown
// text is kept as is and rejected by Valid.
func (s *SeedStatus) UnmarshalText(text []byte) error {
	*s = unmarshalStatus(text, seedLabels)
	return nil
}

// PondStatus is the quality verdict for a pond.
type PondStatus string

// Pond statuses.
const (
	PondGood    PondStatus = "Good"
	PondFair    PondStatus = "Fair"
	PondPoor    PondStatus = "Poor"
	PondInvalid PondStatus = "Invalid"
)

var pondLabels = map[PondStatus]string{
	PondGood:    "Baik",
	PondFair:    "Cukup Baik",
	PondPoor:    "Buruk",
	PondInvalid: "Tidak Valid",
}

// Label returns the Indonesian display label.
func (s PondStatus) Label() string { return statusLabel(s, pondLabels) }

// Valid reports whether s is part of the vocabulary.
func (s PondStatus) Valid() bool {
	_, ok := pondLabels[s]
	return ok
}

// ParsePondStatus accepts the canonical name or the Indonesian label.
func ParsePondStatus(s string) (PondStatus, error) { return parseStatus("pond status", s, pondLabels) }

// UnmarshalText accepts the canonical name or the Indonesian label.
func (s *PondStatus) UnmarshalText(text []byte) error {
	*s = unmarshalStatus(text, pondLabels)
	return nil
}

// FinalStatus is the growth recommendation combining seed, pond and feed.
type FinalStatus string

// Final statuses, best to worst, followed by the no-rule-matched outcome.
const (
	VeryGood FinalStatus = "VeryGood"
	Good     FinalStatus = "Good"
	Neutral  FinalStatus = "Neutral"
	Poor     FinalStatus = "Poor"
	VeryPoor FinalStatus = "VeryPoor"
	Unknown  FinalStatus = "Unknown"
)

var finalLabels = map[FinalStatus]string{
	VeryGood: "Sangat Baik",
	Good:     "Baik",
	Neutral:  "Netral",
	Poor:     "Tidak Baik",
	VeryPoor: "Sangat Tidak Baik",
	Unknown:  "Tidak Diketahui",
}

// FinalStatuses lists the recommendations in order, best first.
func FinalStatuses() []FinalStatus {
	return []FinalStatus{VeryGood, Good, Neutral, Poor, VeryPoor, Unknown}
}

// Label returns the Indonesian display label.
func (s FinalStatus) Label() string { return statusLabel(s, finalLabels) }

// Valid reports whether s is part of the vocabulary.
func (s FinalStatus) Valid() bool {
	_, ok := finalLabels[s]
	return ok
}

// ParseFinalStatus accepts the canonical name or the Indonesian label.
func ParseFinalStatus(s string) (FinalStatus, error) {
	return parseStatus("final status", s, finalLabels)
}

// UnmarshalText accepts the canonical name or the Indonesian label.
func (s *FinalStatus) UnmarshalText(text []byte) error {
	*s = unmarshalStatus(text, finalLabels)
	return nil
}

func statusLabel[S ~string](s S, labels map[S]string) string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

func unmarshalStatus[S ~string](text []byte, labels map[S]string) S {
	if status, err := parseStatus("", string(text), labels); err == nil {
		return status
	}
	return S(text)
}

// parseStatus matches canonical names before labels, so "Baik" never shadows
// a canonical value of another status.
func parseStatus[S ~string](kind, s string, labels map[S]string) (S, error) {
	norm := normalize(s)
	for status := range labels {
		if normalize(string(status)) == norm {
			return status, nil
		}
	}
	for status, label := range labels {
		if normalize(label) == norm {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q", ErrUnknownValue, kind, strings.TrimSpace(s))
}
