package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"tripwise/internal/apperrors"
)

var responseSchema = mustSchema(map[string]any{
	"type":     "object",
	"required": []string{"suggestions", "summary"},
	"properties": map[string]any{
		"_thinking": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"summary": map[string]any{"type": "string"},
		"suggestions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"type", "reasoning"},
				"properties": map[string]any{
					"type": map[string]any{
						"type": "string",
						"enum": []string{string(AddAttraction), string(AddRestaurant), string(GeneralTip)},
					},
					"reasoning":      map[string]any{"type": "string"},
					"attractionName": map[string]any{"type": "string"},
					"priority": map[string]any{
						"type": "string",
						"enum": []string{string(MustSee), string(HighlyRecommended), string(HiddenGem)},
					},
				},
			},
		},
	},
})

func mustSchema(doc map[string]any) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("agent: compile response schema: %v", err))
	}
	return s
}

// ValidateResponse extracts the JSON object from raw model text and checks it against the
// response contract. Text around the object (prose, code fences) is tolerated. Schema
// failures list every offending field, not just the first.
func ValidateResponse(raw string) (*AgentResponse, error) {
	text, doc, ok := extractJSON(raw)
	if !ok {
		return nil, apperrors.ModelResponse("invalid response format")
	}

	result, err := responseSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, apperrors.ModelResponse("invalid response format: " + err.Error())
	}

	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	problems = append(problems, missingPlaceNames(doc)...)
	if len(problems) > 0 {
		return nil, apperrors.ModelResponse("response failed schema validation: " + strings.Join(problems, "; "))
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return nil, apperrors.ModelResponse("invalid response format: " + err.Error())
	}
	return wire.toResponse(), nil
}

// wireResponse is the contract the model writes. Place and score data never come from
// the model; extra properties are ignored.
type wireResponse struct {
	Thinking    []string         `json:"_thinking"`
	Suggestions []wireSuggestion `json:"suggestions"`
	Summary     string           `json:"summary"`
}

type wireSuggestion struct {
	Type           SuggestionType `json:"type"`
	Reasoning      string         `json:"reasoning"`
	AttractionName string         `json:"attractionName"`
	Priority       Priority       `json:"priority"`
}

func (w wireResponse) toResponse() *AgentResponse {
	resp := &AgentResponse{
		Thinking:    w.Thinking,
		Suggestions: make([]Suggestion, 0, len(w.Suggestions)),
		Summary:     w.Summary,
	}
	for _, s := range w.Suggestions {
		resp.Suggestions = append(resp.Suggestions, Suggestion{
			Type:           s.Type,
			Reasoning:      s.Reasoning,
			AttractionName: s.AttractionName,
			Priority:       s.Priority,
		})
	}
	return resp
}

// extractJSON parses raw as-is, then falls back to the greedy span from the first '{'
// to the last '}'.
func extractJSON(raw string) (string, any, bool) {
	text := strings.TrimSpace(raw)
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err == nil {
		return text, doc, true
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", nil, false
	}
	text = text[start : end+1]
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return "", nil, false
	}
	return text, doc, true
}

// missingPlaceNames enforces that add_* suggestions carry a non-empty attractionName.
func missingPlaceNames(doc any) []string {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	items, ok := root["suggestions"].([]any)
	if !ok {
		return nil
	}

	var problems []string
	for i, item := range items {
		s, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := s["type"].(string)
		if typ != string(AddAttraction) && typ != string(AddRestaurant) {
			continue
		}
		if name, _ := s["attractionName"].(string); strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("suggestions.%d: attractionName is required for %s", i, typ))
		}
	}
	return problems
}
