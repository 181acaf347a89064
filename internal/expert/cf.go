// Package expert implements the certainty-factor rule engine: three ordered,
// first-match-wins rule tables that classify seed condition, pond condition
// and the final growth recommendation.
//
// Every function in this package is pure. Tables are package-level values
// that are never mutated, so classifiers may be called from any goroutine.
package expert

import "math"

// MinCF combines conjunctive evidence: a conclusion that needs every factor to
// hold is only as certain as its weakest factor. MinCF of no factors is 0.
func MinCF(cfs ...float64) float64 {
	if len(cfs) == 0 {
		return 0
	}
	lowest := cfs[0]
	for _, cf := range cfs[1:] {
		lowest = math.Min(lowest, cf)
	}
	return lowest
}

// ProductCF combines independent judgments that must both hold.
func ProductCF(a, b float64) float64 {
	return a * b
}

// InBand reports whether v lies in the closed interval [lo, hi].
func InBand(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// clampCF keeps a computed factor inside [0,1]. NaN collapses to 0.
func clampCF(cf float64) float64 {
	switch {
	case math.IsNaN(cf), cf < 0:
		return 0
	case cf > 1:
		return 1
	}
	return cf
}
