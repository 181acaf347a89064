package expert

import "github.com/Veraticus/lelesmart/internal/model"

// Outcome is the result of running all three stages.
type Outcome struct {
	Seed  model.ConditionResult[model.SeedStatus]  `json:"seedCondition"`
	Pond  model.ConditionResult[model.PondStatus]  `json:"pondCondition"`
	Final model.ConditionResult[model.FinalStatus] `json:"finalResult"`
	// Trace names the rule that fired in each stage: seed, pond, final.
	Trace []string `json:"trace"`
}

// OutcomeOf returns the stage results recorded on a.
func OutcomeOf(a *model.Analysis) Outcome {
	return Outcome{Seed: a.Seed, Pond: a.Pond, Final: a.Final, Trace: a.Trace}
}

// Evaluate runs the seed, pond and final classifiers in sequence.
func Evaluate(in model.AnalysisInput) Outcome {
	seed, seedName := SeedRules.Evaluate(in.Seed)
	pond, pondName := PondRules.Evaluate(in.Pond)
	final, finalName := FinalRules.Evaluate(FinalInputs{
		Seed:   seed.Status,
		Pond:   pond.Status,
		Feed:   in.Feed,
		CFSeed: seed.Confidence,
		CFPond: pond.Confidence,
	})

	return Outcome{
		Seed:  seed,
		Pond:  pond,
		Final: final,
		Trace: []string{seedName, pondName, finalName},
	}
}
