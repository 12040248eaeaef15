// Package dto defines request and response structures for the API endpoints.
package dto

// Response is the wire envelope every endpoint replies with: a human-readable
// message, a success flag, and an optional payload.
type Response struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// OK builds a successful response.
func OK(message string, payload any) Response {
	success := true
	return Response{Message: message, Success: &success, Payload: payload}
}

// Fail builds a failed-but-handled response.
func Fail(message string) Response {
	success := false
	return Response{Message: message, Success: &success}
}

// StatusOnly builds a response carrying only a message, used for requests
// rejected before reaching the budget (bad bodies, unknown users).
func StatusOnly(message string) Response {
	return Response{Message: message}
}
