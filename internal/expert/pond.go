package expert

import "github.com/Veraticus/lelesmart/internal/model"

// Optimal water temperature band in degrees Celsius, inclusive on both ends.
const (
	OptimalTempMin = 27.0
	OptimalTempMax = 30.0
)

func optimalTemp(in model.PondInputs) bool {
	return InBand(in.Temperature, OptimalTempMin, OptimalTempMax)
}

// PondRules classifies pond condition. Pond inputs carry no per-field
// confidence, so every rule assigns a fixed certainty factor.
var PondRules = Table[model.PondInputs, model.PondStatus]{
	Rules: []Rule[model.PondInputs, model.PondStatus]{
		{
			Name: "extreme-ph-optimal-temp",
			When: func(in model.PondInputs) bool { return in.WaterPH.Extreme() && optimalTemp(in) },
			Then: model.PondFair,
			CF:   fixed[model.PondInputs](0.9),
		},
		{
			Name: "extreme-ph",
			When: func(in model.PondInputs) bool { return in.WaterPH.Extreme() },
			Then: model.PondPoor,
			CF:   fixed[model.PondInputs](0.6),
		},
		{
			Name: "neutral-ph-optimal-temp",
			When: func(in model.PondInputs) bool { return in.WaterPH == model.PHNeutral && optimalTemp(in) },
			Then: model.PondGood,
			CF:   fixed[model.PondInputs](1.0),
		},
		{
			Name: "neutral-ph",
			When: func(in model.PondInputs) bool { return in.WaterPH == model.PHNeutral },
			Then: model.PondFair,
			CF:   fixed[model.PondInputs](0.8),
		},
	},
	Fallback: model.PondInvalid,
}

// ClassifyPond determines the quality of a pond.
func ClassifyPond(in model.PondInputs) model.ConditionResult[model.PondStatus] {
	result, _ := PondRules.Evaluate(in)
	return result
}
