package model

import (
	"math"
	"strings"
)

// ValidateRequirement checks a single schedule line. index is used only in
// the error message.
func ValidateRequirement(index int, r Requirement) error {
	if strings.TrimSpace(r.Identifier) == "" {
		return newError(KindInvalidRequirement, "identifier", "row %d: bar mark is required", index+1)
	}
	if r.Diameter <= 0 {
		return newError(KindInvalidRequirement, "diameter", "row %d (%s): diameter must be positive, got %d", index+1, r.Identifier, r.Diameter)
	}
	if math.IsNaN(r.Length) || math.IsInf(r.Length, 0) || r.Length <= 0 {
		return newError(KindInvalidRequirement, "length", "row %d (%s): length must be positive, got %v", index+1, r.Identifier, r.Length)
	}
	if r.Quantity <= 0 {
		return newError(KindInvalidRequirement, "quantity", "row %d (%s): quantity must be positive, got %d", index+1, r.Identifier, r.Quantity)
	}
	return nil
}

// ValidateRequirements rejects the first malformed line.
func ValidateRequirements(reqs []Requirement) error {
	for i, r := range reqs {
		if err := ValidateRequirement(i, r); err != nil {
			return err
		}
	}
	return nil
}
