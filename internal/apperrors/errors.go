// README: Closed error taxonomy shared by the agent, search, and chat layers.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed; callers switch on it.
type Kind string

const (
	KindProvider        Kind = "provider"
	KindModelResponse   Kind = "model_response"
	KindInvalidToolCall Kind = "invalid_tool_call"
	KindNotFound        Kind = "not_found"
	KindNoResults       Kind = "no_results"
	KindValidation      Kind = "validation"
)

// Error is the single error type for every Kind.
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	ToolCallID string // only for KindInvalidToolCall
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Op == ""
}

// Sentinels for errors.Is.
var (
	ErrProvider        = &Error{Kind: KindProvider}
	ErrModelResponse   = &Error{Kind: KindModelResponse}
	ErrInvalidToolCall = &Error{Kind: KindInvalidToolCall}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrNoResults       = &Error{Kind: KindNoResults}
	ErrValidation      = &Error{Kind: KindValidation}
)

// Provider wraps a network or HTTP failure from the model or search provider.
func Provider(op string, err error) error {
	return &Error{Kind: KindProvider, Op: op, Message: "upstream provider failure", Err: err}
}

// ModelResponse reports unusable terminal model output.
func ModelResponse(msg string) error {
	return &Error{Kind: KindModelResponse, Message: msg}
}

// InvalidToolCall keeps the offending call id for traceability.
func InvalidToolCall(callID, msg string, err error) error {
	return &Error{Kind: KindInvalidToolCall, Message: msg, ToolCallID: callID, Err: err}
}

func NotFound(op, msg string) error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

func NoResults(op, msg string) error {
	return &Error{Kind: KindNoResults, Op: op, Message: msg}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
