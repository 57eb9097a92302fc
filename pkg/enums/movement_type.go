package enums

import "fmt"

// MovementType is the direction of a stock movement ledger entry.
type MovementType string

const (
	MovementTypeAddition  MovementType = "addition"
	MovementTypeDeduction MovementType = "deduction"
)

var validMovementTypes = []MovementType{
	MovementTypeAddition,
	MovementTypeDeduction,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
