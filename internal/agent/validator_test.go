package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/apperrors"
	"tripwise/internal/logger"
)

const validJSON = `{"_thinking":["a","b"],"suggestions":[{"type":"add_attraction","reasoning":"r","attractionName":"Louvre","priority":"hidden gem"}],"summary":"s"}`

func TestValidateResponse_Repair(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain", validJSON},
		{"padded", "\n\n  " + validJSON + "  \n"},
		{"fenced with prose", "Here you go:\n```json\n" + validJSON + "\n```"},
		{"trailing chatter", validJSON + "\nLet me know if you want more!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ValidateResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, resp.Thinking)
			require.Len(t, resp.Suggestions, 1)
			assert.Equal(t, "Louvre", resp.Suggestions[0].AttractionName)
			assert.Equal(t, HiddenGem, resp.Suggestions[0].Priority)
			assert.Equal(t, "s", resp.Summary)
		})
	}
}

func TestValidateResponse_InvalidFormat(t *testing.T) {
	for _, raw := range []string{"", "no json here", "{ broken", "} backwards {", "```json\n{\"summary\": }\n```"} {
		_, err := ValidateResponse(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, apperrors.ErrModelResponse), raw)
		assert.Contains(t, err.Error(), "invalid response format", raw)
	}
}

func TestValidateResponse_ReportsEveryFieldError(t *testing.T) {
	raw := `{
		"_thinking": [1],
		"suggestions": [
			{"type": "add_restaurant", "reasoning": "tasty"},
			{"type": "add_hotel", "reasoning": "comfy"},
			{"type": "general_tip", "reasoning": "go early", "priority": "urgent"}
		]
	}`

	_, err := ValidateResponse(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrModelResponse))

	msg := err.Error()
	assert.Contains(t, msg, "summary is required")
	assert.Contains(t, msg, "_thinking.0")
	assert.Contains(t, msg, "suggestions.0: attractionName is required for add_restaurant")
	assert.Contains(t, msg, "suggestions.1.type")
	assert.Contains(t, msg, "suggestions.2.priority")
}

func TestValidateResponse_TipNeedsNoName(t *testing.T) {
	resp, err := ValidateResponse(`{"suggestions":[{"type":"general_tip","reasoning":"carry cash"}],"summary":"s"}`)
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions[0].AttractionName)
	assert.Nil(t, resp.Thinking)
}

func TestValidateResponse_RejectsNonObject(t *testing.T) {
	_, err := ValidateResponse(`["not", "an", "object"]`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestValidateResponse_IgnoresModelSuppliedPlaceData(t *testing.T) {
	raw := `{"suggestions":[
		{"type":"general_tip","reasoning":"r","place":{"placeId":"FAKE","name":"Nowhere","rating":5},"score":{"quality":100,"confidence":100,"total":100}},
		{"type":"add_attraction","reasoning":"r","attractionName":"Louvre","place":"Louvre","score":99}
	],"summary":"s"}`

	resp, err := ValidateResponse(raw)
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 2)
	for _, s := range resp.Suggestions {
		assert.Nil(t, s.Place)
		assert.Nil(t, s.Score)
	}

	got, err := NewEnricher(nil, logger.NewNoOpLogger()).Enrich(context.Background(), resp, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, GeneralTip, got[0].Type)
	assert.Nil(t, got[0].Place)
	assert.Nil(t, got[0].Score)
}
