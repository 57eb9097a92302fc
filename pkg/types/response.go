package types

// SuccessEnvelope wraps every successful response body except the scanner
// endpoints, which use flat payloads.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the stable error shape clients branch on by Code.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
