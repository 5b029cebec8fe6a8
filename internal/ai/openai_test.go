package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/apperrors"
)

func TestOpenAIProvider_Complete_ToolCalls(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"finish_reason":"tool_calls","message":{"role":"assistant","content":null,
			"tool_calls":[{"id":"call_1","type":"function","function":{"name":"searchAttractions","arguments":"{\"radius\":900}"}}]}}]}`))
	}))
	defer srv.Close()

	temp := float32(0.3)
	p := NewOpenAIProvider("sk-test", "test-model", srv.URL+"/")
	resp, err := p.Complete(context.Background(), ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: Text("sys")},
			{Role: RoleUser, Content: Text("hello")},
		},
		Temperature: &temp,
		MaxTokens:   512,
		Tools: []ToolSpec{{Name: "searchAttractions", Params: []ToolParam{
			{Name: "lat", Type: ParamNumber, Required: true},
		}}},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Content)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, ToolCall{ID: "call_1", Name: "searchAttractions", Arguments: `{"radius":900}`}, resp.ToolCalls[0])

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
	assert.Equal(t, []any{"lat"}, got.Tools[0].Function.Parameters["required"])
}

func TestOpenAIProvider_Complete_EchoesToolTurns(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"finish_reason":"stop","message":{"role":"assistant","content":"{}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("k", "", srv.URL)
	resp, err := p.Complete(context.Background(), ChatRequest{Messages: []Message{
		{Role: RoleUser, Content: Text("go")},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c1", Name: "searchRestaurants", Arguments: "{}"}}},
		{Role: RoleTool, ToolCallID: "c1", Content: Text("[]")},
	}})
	require.NoError(t, err)
	assert.Equal(t, "{}", *resp.Content)

	msgs := raw["messages"].([]any)
	require.Len(t, msgs, 3)
	assistant := msgs[1].(map[string]any)
	assert.Nil(t, assistant["content"])
	calls := assistant["tool_calls"].([]any)
	assert.Equal(t, "c1", calls[0].(map[string]any)["id"])
	assert.Equal(t, "c1", msgs[2].(map[string]any)["tool_call_id"])
}

func TestOpenAIProvider_Complete_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		noCh   bool
	}{
		{"api error", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, false},
		{"empty choices", http.StatusOK, `{"choices":[]}`, true},
		{"garbage", http.StatusBadGateway, `<html>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOpenAIProvider("k", "", srv.URL).Complete(context.Background(), ChatRequest{
				Messages: []Message{{Role: RoleUser, Content: Text("x")}},
			})
			assert.True(t, errors.Is(err, apperrors.ErrProvider), "got %v", err)
			assert.Equal(t, tt.noCh, errors.Is(err, ErrNoChoice))
		})
	}
}
