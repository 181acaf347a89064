package model

import "time"

// AnalysisInput is everything a user supplies for one assessment.
type AnalysisInput struct {
	Seed SeedInputs `json:"seed"`
	Pond PondInputs `json:"pond"`
	Feed FeedType   `json:"feedType"`
}

// Analysis is a persisted assessment: the raw inputs together with the result
// of each stage of the pipeline.
type Analysis struct {
	CreatedAt time.Time                    `json:"createdAt"`
	Seed      ConditionResult[SeedStatus]  `json:"seedCondition"`
	Pond      ConditionResult[PondStatus]  `json:"pondCondition"`
	Final     ConditionResult[FinalStatus] `json:"finalResult"`
	ID        string                       `json:"id"`
	Input     AnalysisInput                `json:"input"`
	// Trace names the rule that fired in each stage. It is only set on the
	// value returned by the run that produced the analysis and is not stored.
	Trace []string `json:"trace,omitempty"`
}
