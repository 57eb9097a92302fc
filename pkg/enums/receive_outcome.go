package enums

import "net/http"

// ReceiveOutcome tags the result of receiving a single master code.
type ReceiveOutcome string

const (
	ReceiveOutcomeReceived         ReceiveOutcome = "received"
	ReceiveOutcomeAlreadyReceived  ReceiveOutcome = "already_received"
	ReceiveOutcomeWrongOrder       ReceiveOutcome = "wrong_order"
	ReceiveOutcomeNotFound         ReceiveOutcome = "not_found"
	ReceiveOutcomeInvalidStatus    ReceiveOutcome = "invalid_status"
	ReceiveOutcomeDuplicateRequest ReceiveOutcome = "duplicate_request"
	ReceiveOutcomeInvalidFormat    ReceiveOutcome = "invalid_format"
	ReceiveOutcomeError            ReceiveOutcome = "error"
)

var validReceiveOutcomes = []ReceiveOutcome{
	ReceiveOutcomeReceived,
	ReceiveOutcomeAlreadyReceived,
	ReceiveOutcomeWrongOrder,
	ReceiveOutcomeNotFound,
	ReceiveOutcomeInvalidStatus,
	ReceiveOutcomeDuplicateRequest,
	ReceiveOutcomeInvalidFormat,
	ReceiveOutcomeError,
}

// String implements fmt.Stringer.
func (o ReceiveOutcome) String() string {
	return string(o)
}

// IsValid reports whether the value is a known ReceiveOutcome.
func (o ReceiveOutcome) IsValid() bool {
	for _, candidate := range validReceiveOutcomes {
		if candidate == o {
			return true
		}
	}
	return false
}

// HTTPStatus maps a single-code outcome to its response status. Batch requests
// always answer 200 regardless of per-item outcomes.
func (o ReceiveOutcome) HTTPStatus() int {
	switch o {
	case ReceiveOutcomeReceived, ReceiveOutcomeDuplicateRequest:
		return http.StatusOK
	case ReceiveOutcomeAlreadyReceived:
		return http.StatusConflict
	case ReceiveOutcomeWrongOrder, ReceiveOutcomeInvalidStatus, ReceiveOutcomeInvalidFormat:
		return http.StatusBadRequest
	case ReceiveOutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
