// ABOUTME: Uniform result envelope returned by repository operations
// ABOUTME: A false status always carries the zero payload

package domain

// Message is the status half of every repository result.
type Message struct {
	Status  bool   `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// Result wraps a payload with its status message.
// NeedsRefresh marks payloads reconstructed on the client because the API
// confirmed the change without returning the resource; such payloads must be
// replaced by a list refresh before they are treated as durable.
// Reauth marks a failure caused by the API rejecting the session.
type Result[T any] struct {
	Payload      T       `json:"payload" yaml:"payload"`
	Message      Message `json:"message" yaml:"message"`
	NeedsRefresh bool    `json:"needs_refresh,omitempty" yaml:"needs_refresh,omitempty"`
	Reauth       bool    `json:"reauth,omitempty" yaml:"reauth,omitempty"`
}

// OK builds a successful result.
func OK[T any](payload T, message string) Result[T] {
	return Result[T]{Payload: payload, Message: Message{Status: true, Message: message}}
}

// Failed builds a failed result with the zero payload.
func Failed[T any](message string) Result[T] {
	var zero T
	return Result[T]{Payload: zero, Message: Message{Status: false, Message: message}}
}
