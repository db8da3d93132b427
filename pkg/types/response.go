package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// Message is the body for endpoints that only confirm an action.
type Message struct {
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
