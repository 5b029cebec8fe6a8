package ai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/apperrors"
)

func TestToGeminiContents_FoldsToolResults(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: Text("be helpful")},
		{Role: RoleUser, Content: Text("what to see in Kyoto?")},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "a", Name: "searchAttractions", Arguments: `{"lat":35,"lng":135}`},
			{ID: "b", Name: "searchRestaurants", Arguments: `not json`},
		}},
		{Role: RoleTool, ToolCallID: "b", Content: Text(`{"error":"bad args"}`)},
		{Role: RoleTool, ToolCallID: "a", Content: Text(`[{"name":"Kinkaku-ji"}]`)},
	}

	system, contents, err := toGeminiContents(msgs)
	require.NoError(t, err)

	require.NotNil(t, system)
	assert.Equal(t, []genai.Part{genai.Text("be helpful")}, system.Parts)
	require.Len(t, contents, 3)

	assert.Equal(t, "user", contents[0].Role)

	model := contents[1]
	assert.Equal(t, "model", model.Role)
	require.Len(t, model.Parts, 2)
	call := model.Parts[0].(genai.FunctionCall)
	assert.Equal(t, "searchAttractions", call.Name)
	assert.Equal(t, map[string]any{"lat": 35.0, "lng": 135.0}, call.Args)
	assert.Empty(t, model.Parts[1].(genai.FunctionCall).Args)

	results := contents[2]
	assert.Equal(t, "user", results.Role)
	require.Len(t, results.Parts, 2)
	first := results.Parts[0].(genai.FunctionResponse)
	assert.Equal(t, "searchRestaurants", first.Name)
	assert.Equal(t, map[string]any{"error": "bad args"}, first.Response)
	second := results.Parts[1].(genai.FunctionResponse)
	assert.Equal(t, "searchAttractions", second.Name)
	assert.Contains(t, second.Response, "content")
}

func TestToGeminiContents_UnknownToolCallID(t *testing.T) {
	_, _, err := toGeminiContents([]Message{
		{Role: RoleUser, Content: Text("hi")},
		{Role: RoleTool, ToolCallID: "ghost", Content: Text("{}")},
	})
	assert.Error(t, err)
}

func TestToGeminiTool(t *testing.T) {
	tool := toGeminiTool([]ToolSpec{{
		Name:        "searchAttractions",
		Description: "find things to do",
		Params: []ToolParam{
			{Name: "lat", Type: ParamNumber, Required: true},
			{Name: "limit", Type: ParamInteger},
		},
	}})

	require.Len(t, tool.FunctionDeclarations, 1)
	decl := tool.FunctionDeclarations[0]
	assert.Equal(t, "searchAttractions", decl.Name)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, genai.TypeNumber, decl.Parameters.Properties["lat"].Type)
	assert.Equal(t, genai.TypeInteger, decl.Parameters.Properties["limit"].Type)
	assert.Equal(t, []string{"lat"}, decl.Parameters.Required)
}

func TestFromGeminiResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		FinishReason: genai.FinishReasonStop,
		Content: &genai.Content{Role: "model", Parts: []genai.Part{
			genai.Text("Looking "),
			genai.Text("around."),
			genai.FunctionCall{Name: "searchRestaurants", Args: map[string]any{"radius": 800}},
		}},
	}}}

	got, err := fromGeminiResponse(resp)
	require.NoError(t, err)
	require.NotNil(t, got.Content)
	assert.Equal(t, "Looking around.", *got.Content)
	require.Len(t, got.ToolCalls, 1)
	assert.True(t, strings.HasPrefix(got.ToolCalls[0].ID, "call_"))
	assert.Equal(t, "searchRestaurants", got.ToolCalls[0].Name)

	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(got.ToolCalls[0].Arguments), &args))
	assert.Equal(t, 800.0, args["radius"])
}

func TestFromGeminiResponse_NoCandidate(t *testing.T) {
	_, err := fromGeminiResponse(&genai.GenerateContentResponse{})
	assert.True(t, errors.Is(err, ErrNoChoice))
	assert.True(t, errors.Is(err, apperrors.ErrProvider))
}
