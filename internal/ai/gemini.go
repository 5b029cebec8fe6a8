package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"tripwise/internal/apperrors"
)

// DefaultGeminiModel balances latency and cost for tool-calling loops.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements ChatClient using Google's Gemini models and native function calling.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Complete sends the transcript as a fresh chat session. A new GenerativeModel is built
// per call so concurrent invocations never share generation settings.
func (p *GeminiProvider) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	system, contents, err := toGeminiContents(req.Messages)
	if err != nil {
		return nil, err
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: transcript has no user turn")
	}

	model := p.client.GenerativeModel(p.modelName)
	model.SystemInstruction = system
	if len(req.Tools) > 0 {
		model.Tools = []*genai.Tool{toGeminiTool(req.Tools)}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	last := contents[len(contents)-1]
	if last.Role != "user" {
		return nil, fmt.Errorf("gemini: transcript must end with a user or tool turn, got %q", last.Role)
	}
	cs := model.StartChat()
	cs.History = contents[:len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, apperrors.Provider("gemini", err)
	}
	return fromGeminiResponse(resp)
}

// toGeminiContents maps the transcript onto Gemini contents. System turns become the
// system instruction; consecutive tool results are folded into one user content because
// Gemini expects all function responses of a turn together.
func toGeminiContents(msgs []Message) (*genai.Content, []*genai.Content, error) {
	var system *genai.Content
	var out []*genai.Content
	callNames := make(map[string]string)

	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, genai.Text(deref(m.Content)))

		case RoleUser:
			out = append(out, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(deref(m.Content))}})

		case RoleAssistant:
			c := &genai.Content{Role: "model"}
			if text := deref(m.Content); text != "" {
				c.Parts = append(c.Parts, genai.Text(text))
			}
			for _, tc := range m.ToolCalls {
				callNames[tc.ID] = tc.Name
				c.Parts = append(c.Parts, genai.FunctionCall{Name: tc.Name, Args: argsMap(tc.Arguments)})
			}
			if len(c.Parts) == 0 {
				continue
			}
			out = append(out, c)

		case RoleTool:
			name, ok := callNames[m.ToolCallID]
			if !ok {
				return nil, nil, fmt.Errorf("gemini: tool result %q has no matching call", m.ToolCallID)
			}
			part := genai.FunctionResponse{Name: name, Response: responseMap(deref(m.Content))}
			if n := len(out); n > 0 && isFunctionResponses(out[n-1]) {
				out[n-1].Parts = append(out[n-1].Parts, part)
				continue
			}
			out = append(out, &genai.Content{Role: "user", Parts: []genai.Part{part}})

		default:
			return nil, nil, fmt.Errorf("gemini: unknown role %q", m.Role)
		}
	}
	return system, out, nil
}

func toGeminiTool(specs []ToolSpec) *genai.Tool {
	tool := &genai.Tool{}
	for _, s := range specs {
		schema := &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
		for _, p := range s.Params {
			schema.Properties[p.Name] = &genai.Schema{Type: geminiType(p.Type), Description: p.Description}
			if p.Required {
				schema.Required = append(schema.Required, p.Name)
			}
		}
		tool.FunctionDeclarations = append(tool.FunctionDeclarations, &genai.FunctionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  schema,
		})
	}
	return tool
}

func geminiType(t ParamType) genai.Type {
	switch t {
	case ParamInteger:
		return genai.TypeInteger
	case ParamString:
		return genai.TypeString
	default:
		return genai.TypeNumber
	}
}

// fromGeminiResponse reads the first candidate. Gemini does not assign ids to function
// calls, so each call gets a fresh uuid for the transcript to reference.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (*ChatResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, apperrors.Provider("gemini", ErrNoChoice)
	}
	cand := resp.Candidates[0]

	out := &ChatResponse{FinishReason: cand.FinishReason.String()}
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			text.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				return nil, fmt.Errorf("gemini: encode args of %s: %w", v.Name, err)
			}
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        "call_" + uuid.NewString(),
				Name:      v.Name,
				Arguments: string(args),
			})
		}
	}
	if text.Len() > 0 {
		out.Content = Text(text.String())
	}
	return out, nil
}

func isFunctionResponses(c *genai.Content) bool {
	if c.Role != "user" || len(c.Parts) == 0 {
		return false
	}
	_, ok := c.Parts[0].(genai.FunctionResponse)
	return ok
}

// argsMap decodes model arguments for echoing them back. Malformed JSON yields an empty
// object; the executor already reported it as an invalid call.
func argsMap(raw string) map[string]any {
	m := map[string]any{}
	_ = json.Unmarshal([]byte(raw), &m)
	return m
}

// responseMap wraps tool output in the object shape FunctionResponse requires.
func responseMap(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		return obj
	}
	var anyVal any
	if err := json.Unmarshal([]byte(content), &anyVal); err == nil {
		return map[string]any{"content": anyVal}
	}
	return map[string]any{"content": content}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
