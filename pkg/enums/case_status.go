package enums

import "fmt"

// CaseStatus is the lifecycle state of a master case.
type CaseStatus string

const (
	CaseStatusCreated           CaseStatus = "created"
	CaseStatusPacked            CaseStatus = "packed"
	CaseStatusReadyToShip       CaseStatus = "ready_to_ship"
	CaseStatusReceivedWarehouse CaseStatus = "received_warehouse"
	CaseStatusDispatched        CaseStatus = "dispatched"
	CaseStatusSold              CaseStatus = "sold"
)

var validCaseStatuses = []CaseStatus{
	CaseStatusCreated,
	CaseStatusPacked,
	CaseStatusReadyToShip,
	CaseStatusReceivedWarehouse,
	CaseStatusDispatched,
	CaseStatusSold,
}

// ReceivableCaseStatuses are the only states a case may be received from.
var ReceivableCaseStatuses = []CaseStatus{
	CaseStatusPacked,
	CaseStatusReadyToShip,
}

// String implements fmt.Stringer.
func (c CaseStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CaseStatus.
func (c CaseStatus) IsValid() bool {
	for _, candidate := range validCaseStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsReceivable reports whether a case in this state may be received into a warehouse.
func (c CaseStatus) IsReceivable() bool {
	for _, candidate := range ReceivableCaseStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCaseStatus converts raw input into a CaseStatus.
func ParseCaseStatus(value string) (CaseStatus, error) {
	for _, candidate := range validCaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid case status %q", value)
}
