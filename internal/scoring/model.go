// README: Score breakdown types and weighting constants.
package scoring

import "tripwise/internal/types"

// ScoreBreakdown explains how a candidate's total was reached.
// Diversity and PersonaMatch are only set for attractions.
type ScoreBreakdown struct {
	Quality      float64  `json:"quality"`
	Diversity    *float64 `json:"diversity,omitempty"`
	PersonaMatch *float64 `json:"personaMatch,omitempty"`
	Confidence   float64  `json:"confidence"`
	Total        float64  `json:"total"`
}

// ScoredCandidate pairs a candidate with its breakdown.
type ScoredCandidate struct {
	types.Candidate
	Score ScoreBreakdown `json:"score"`
}

type weights struct {
	quality    float64
	persona    float64
	diversity  float64
	confidence float64
}

var (
	attractionWithPersona = weights{quality: 0.5, persona: 0.1, diversity: 0.2, confidence: 0.2}
	attractionNoPersona   = weights{quality: 0.6, diversity: 0.25, confidence: 0.15}
	restaurantWeights     = weights{quality: 0.7, confidence: 0.3}
)

const (
	// personaMiss keeps unmatched attractions visible, just lower.
	personaMiss = 10.0
	personaHit  = 100.0

	confidenceHigh    = 100.0
	confidenceMedium  = 70.0
	confidenceDefault = 40.0
)
