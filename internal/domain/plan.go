package domain

import (
	"fmt"
	"strings"
)

// Plan is the product tier chosen at creation time.
// It is the single control for authority revocation and metadata mutability.
type Plan string

const (
	PlanBasic    Plan = "basic"
	PlanAdvanced Plan = "advanced"
)

// ParsePlan parses a plan name (case-insensitive).
func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanBasic:
		return PlanBasic, nil
	case PlanAdvanced:
		return PlanAdvanced, nil
	default:
		return "", fmt.Errorf("unknown plan %q", s)
	}
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	return p == PlanBasic || p == PlanAdvanced
}

// RevokesAuthorities reports whether mint and freeze authority are revoked
// in the creation transaction.
func (p Plan) RevokesAuthorities() bool {
	return p == PlanBasic
}

// MetadataMutable reports whether the metadata record stays updatable.
func (p Plan) MetadataMutable() bool {
	return p != PlanBasic
}
