package expert

import (
	"slices"

	"github.com/Veraticus/lelesmart/internal/model"
)

// FinalInputs are the upstream verdicts, their certainty factors and the feed.
type FinalInputs struct {
	Seed   model.SeedStatus `json:"seedCondition"`
	Pond   model.PondStatus `json:"pondCondition"`
	Feed   model.FeedType   `json:"feedType"`
	CFSeed float64          `json:"cfSeed"`
	CFPond float64          `json:"cfPond"`
}

// combined is the certainty shared by every matched final rule.
func combined(in FinalInputs) float64 {
	return ProductCF(in.CFSeed, in.CFPond)
}

// when builds a predicate on the seed/pond pair, optionally restricted to a
// set of feeds. No feeds means any feed.
func when(seed model.SeedStatus, pond model.PondStatus, feeds ...model.FeedType) func(FinalInputs) bool {
	return func(in FinalInputs) bool {
		if in.Seed != seed || in.Pond != pond {
			return false
		}
		return len(feeds) == 0 || slices.Contains(feeds, in.Feed)
	}
}

func finalRule(name string, then model.FinalStatus, pred func(FinalInputs) bool) Rule[FinalInputs, model.FinalStatus] {
	return Rule[FinalInputs, model.FinalStatus]{Name: name, When: pred, Then: then, CF: combined}
}

// FinalRules maps seed and pond verdicts to a recommendation. Healthy seed
// tolerates a weaker pond; unhealthy seed is at best Neutral, and only with a
// good pond and pellet feed. Feed-restricted rows precede their catch-all row.
var FinalRules = Table[FinalInputs, model.FinalStatus]{
	Rules: []Rule[FinalInputs, model.FinalStatus]{
		finalRule("healthy-good", model.VeryGood, when(model.Healthy, model.PondGood)),
		finalRule("healthy-fair-pellets", model.VeryGood, when(model.Healthy, model.PondFair, model.Pellets)),
		finalRule("healthy-fair", model.Good, when(model.Healthy, model.PondFair)),
		finalRule("healthy-poor", model.Good, when(model.Healthy, model.PondPoor)),
		finalRule("unhealthy-good-pellets", model.Neutral, when(model.Unhealthy, model.PondGood, model.Pellets)),
		finalRule("unhealthy-good", model.Poor, when(model.Unhealthy, model.PondGood)),
		finalRule("unhealthy-fair-pellets-eggs", model.Poor, when(model.Unhealthy, model.PondFair, model.Pellets, model.Eggs)),
		finalRule("unhealthy-fair", model.VeryPoor, when(model.Unhealthy, model.PondFair)),
		finalRule("unhealthy-poor", model.VeryPoor, when(model.Unhealthy, model.PondPoor)),
	},
	Fallback: model.Unknown,
}

// ClassifyFinal determines the growth recommendation.
func ClassifyFinal(in FinalInputs) model.ConditionResult[model.FinalStatus] {
	result, _ := FinalRules.Evaluate(in)
	return result
}
