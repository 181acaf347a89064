package expert

import "github.com/Veraticus/lelesmart/internal/model"

// FallbackRule is the name reported when no rule in a table matched.
const FallbackRule = "no-match"

// Rule pairs a predicate with the status it concludes and the certainty
// factor assigned to that conclusion.
type Rule[I any, S model.Status] struct {
	When func(I) bool
	CF   func(I) float64
	Name string
	Then S
}

// Table is an ordered rule list. Rules are tried top to bottom and the first
// whose predicate holds decides the result; later rules are not consulted.
// When nothing matches the result is Fallback with a certainty factor of 0.
type Table[I any, S model.Status] struct {
	Rules    []Rule[I, S]
	Fallback S
}

// Evaluate runs the table against in and returns the result together with the
// name of the rule that fired.
func (t Table[I, S]) Evaluate(in I) (model.ConditionResult[S], string) {
	for _, rule := range t.Rules {
		if !rule.When(in) {
			continue
		}
		return model.ConditionResult[S]{
			Status:     rule.Then,
			Confidence: clampCF(rule.CF(in)),
		}, rule.Name
	}

	return model.ConditionResult[S]{Status: t.Fallback, Confidence: 0}, FallbackRule
}

// Names lists the rule names in evaluation order.
func (t Table[I, S]) Names() []string {
	names := make([]string, 0, len(t.Rules))
	for _, rule := range t.Rules {
		names = append(names, rule.Name)
	}
	return names
}

// fixed returns a CF function ignoring its input.
func fixed[I any](cf float64) func(I) float64 {
	return func(I) float64 { return cf }
}
