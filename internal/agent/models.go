package agent

import (
	"context"

	"tripwise/internal/ai"
	"tripwise/internal/scoring"
	"tripwise/internal/types"
)

// MaxToolIterations bounds the tool round trips of one invocation.
const MaxToolIterations = 5

// concurrencyLimit caps in-flight tool calls and enrichment lookups.
const concurrencyLimit = 3

// SuggestionType tags what a suggestion asks the user to do.
type SuggestionType string

const (
	AddAttraction SuggestionType = "add_attraction"
	AddRestaurant SuggestionType = "add_restaurant"
	GeneralTip    SuggestionType = "general_tip"
)

// Priority is an optional tier the model attaches to add_* suggestions.
type Priority string

const (
	MustSee           Priority = "must-see"
	HighlyRecommended Priority = "highly recommended"
	HiddenGem         Priority = "hidden gem"
)

// Suggestion is one recommendation. Place and Score are attached during enrichment;
// Score stays nil for places that were never scored in this invocation.
type Suggestion struct {
	Type           SuggestionType          `json:"type"`
	Reasoning      string                  `json:"reasoning"`
	AttractionName string                  `json:"attractionName,omitempty"`
	Priority       Priority                `json:"priority,omitempty"`
	Place          *types.Candidate        `json:"place,omitempty"`
	Score          *scoring.ScoreBreakdown `json:"score,omitempty"`
}

// AgentResponse is the validated, enriched output of one invocation.
type AgentResponse struct {
	Thinking    []string     `json:"_thinking,omitempty"`
	Suggestions []Suggestion `json:"suggestions"`
	Summary     string       `json:"summary"`
}

// HistoryTurn is a prior exchange supplied by the caller. Only user and assistant
// roles are replayed to the model.
type HistoryTurn struct {
	Role    ai.Role `json:"role"`
	Content string  `json:"content"`
}

// SuggestInput is the travel-plan context of one invocation.
type SuggestInput struct {
	PlaceName          string
	Location           types.Point
	PlannedAttractions []string
	PlannedRestaurants []string
	History            []HistoryTurn
	Message            string
	Personas           []scoring.Persona
}

// PlaceSearcher is the search collaborator the tools run against.
type PlaceSearcher interface {
	NearbySearch(ctx context.Context, q types.NearbyQuery) ([]types.Candidate, error)
	TextSearch(ctx context.Context, name string) (types.Candidate, error)
}

// PlaceLookup resolves a place by exact name from a persistent cache.
type PlaceLookup interface {
	Lookup(ctx context.Context, name string) (types.Candidate, error)
}

// seenPlace is a candidate observed during the invocation, with its score when it came
// from a scored search.
type seenPlace struct {
	candidate types.Candidate
	score     *scoring.ScoreBreakdown
}
