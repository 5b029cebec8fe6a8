package ai

import "errors"

// ErrNoChoice is returned when the provider answered without any candidate turn.
var ErrNoChoice = errors.New("no response choice")

// Role identifies who authored a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of the conversation transcript.
type Message struct {
	Role Role `json:"role"`

	// Content is nil for assistant turns that only request tools.
	Content *string `json:"content"`

	// ToolCalls is only set on assistant turns.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`

	// ToolCallID links a tool-result turn back to the call it answers.
	ToolCallID string `json:"toolCallId,omitempty"`
}

// ToolCall is a model-issued request to run a registered tool.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Arguments is the raw JSON object the model produced; it may be malformed.
	Arguments string `json:"arguments"`
}

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	ParamNumber  ParamType = "number"
	ParamInteger ParamType = "integer"
	ParamString  ParamType = "string"
)

// ToolParam describes one top-level argument of a tool.
type ToolParam struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

// ToolSpec is the model-facing description of a tool.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// ChatRequest is the provider-neutral input to ChatClient.Complete.
type ChatRequest struct {
	Messages    []Message
	Temperature *float32
	MaxTokens   int
	Tools       []ToolSpec
}

// ChatResponse is the model's next turn.
type ChatResponse struct {
	Content      *string
	ToolCalls    []ToolCall
	FinishReason string
}

// Text returns a pointer to s, for building Message.Content.
func Text(s string) *string {
	return &s
}
