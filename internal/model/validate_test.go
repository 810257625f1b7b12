package model

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequirement(t *testing.T) {
	cases := []struct {
		req   Requirement
		field string
	}{
		{NewRequirement("  ", 12, 1, 1), "identifier"},
		{NewRequirement("A", 0, 1, 1), "diameter"},
		{NewRequirement("A", 12, 0, 1), "length"},
		{NewRequirement("A", 12, math.Inf(1), 1), "length"},
		{NewRequirement("A", 12, math.NaN(), 1), "length"},
		{NewRequirement("A", 12, 1, 0), "quantity"},
	}
	for _, tc := range cases {
		err := ValidateRequirement(4, tc.req)
		var e *Error
		if assert.ErrorAs(t, err, &e, tc.field) {
			assert.Equal(t, KindInvalidRequirement, e.Kind)
			assert.Equal(t, tc.field, e.Field)
			assert.Contains(t, e.Message, "row 5")
		}
	}

	assert.NoError(t, ValidateRequirement(0, NewRequirement("A", 12, 1, 1)))
}

func TestValidateRequirementsStopsAtFirst(t *testing.T) {
	err := ValidateRequirements([]Requirement{
		NewRequirement("A", 12, 1, 1),
		NewRequirement("B", 12, 1, -2),
		NewRequirement("", 12, 1, 1),
	})
	assert.True(t, IsKind(err, KindInvalidRequirement))
	assert.Contains(t, err.Error(), "(B)")
}

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading schedule: %w", NewError(KindDegenerateSplicing, "lap_factor", "lap too long"))
	assert.True(t, IsKind(err, KindDegenerateSplicing))
	assert.False(t, IsKind(err, KindInvalidSettings))
	assert.Equal(t, "loading schedule: degenerate_splicing: lap_factor: lap too long", err.Error())
}
