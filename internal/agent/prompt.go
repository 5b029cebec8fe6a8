package agent

import (
	"fmt"
	"strings"

	"tripwise/internal/ai"
)

// systemPrompt fixes the agent's role, tool usage rules and output contract.
const systemPrompt = `Role: You are the travel recommendation assistant of "Tripwise", helping a traveller plan what to see and where to eat.

TOOLS:
- searchAttractions: attractions near the trip location, each with a quality score (0-100).
- searchRestaurants: restaurants near the trip location, each with a quality score (0-100).
- getPlaceDetails: confirm one place by its exact name.
The search location is fixed to the trip's map position; choose radius and limit only.

RULES:
1. Call a search tool before recommending any place. Never invent places.
2. "attractionName" MUST be copied exactly, character for character, from a tool result name.
3. Do not recommend places the traveller has already planned.
4. Prefer higher scores, but explain trade-offs (e.g. a hidden gem with fewer reviews).
5. Respect the traveller's personas when choosing attractions.
6. Use "general_tip" for advice that is not a specific place (transport, timing, etiquette).
7. Recommend at most 6 places.

OUTPUT:
Respond with ONE JSON object and nothing else:
{
  "_thinking": ["short reasoning steps"],
  "suggestions": [
    {
      "type": "add_attraction" | "add_restaurant" | "general_tip",
      "reasoning": "why this fits the traveller",
      "attractionName": "exact place name (required for add_attraction / add_restaurant)",
      "priority": "must-see" | "highly recommended" | "hidden gem"
    }
  ],
  "summary": "one or two friendly sentences for the traveller"
}`

// seedTranscript builds the opening transcript: system prompt, replayed history, then the
// current request embedded in the trip context.
func seedTranscript(in SuggestInput) []ai.Message {
	msgs := make([]ai.Message, 0, len(in.History)+2)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: ai.Text(systemPrompt)})

	for _, h := range in.History {
		if h.Role != ai.RoleUser && h.Role != ai.RoleAssistant {
			continue
		}
		if strings.TrimSpace(h.Content) == "" {
			continue
		}
		msgs = append(msgs, ai.Message{Role: h.Role, Content: ai.Text(h.Content)})
	}

	msgs = append(msgs, ai.Message{Role: ai.RoleUser, Content: ai.Text(buildUserTurn(in))})
	return msgs
}

func buildUserTurn(in SuggestInput) string {
	placeName := in.PlaceName
	if placeName == "" {
		placeName = "UNKNOWN_PLACE"
	}

	personas := make([]string, 0, len(in.Personas))
	for _, p := range in.Personas {
		personas = append(personas, string(p))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trip context:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", placeName)
	fmt.Fprintf(&b, "- Map position: %.6f, %.6f\n", in.Location.Lat, in.Location.Lng)
	fmt.Fprintf(&b, "- Planned attractions: %s\n", listOrNone(in.PlannedAttractions))
	fmt.Fprintf(&b, "- Planned restaurants: %s\n", listOrNone(in.PlannedRestaurants))
	fmt.Fprintf(&b, "- Personas: %s\n", listOrNone(personas))
	fmt.Fprintf(&b, "\nUser Message: %s", in.Message)
	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "NONE"
	}
	return strings.Join(items, "; ")
}
