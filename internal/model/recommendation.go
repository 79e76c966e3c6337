package model

import (
	"fmt"
	"strings"
)

// RecommendationType selects both the prompt template and the response shape.
type RecommendationType string

const (
	// RecommendationGeneral is an overall financial health review.
	RecommendationGeneral RecommendationType = "general"
	// RecommendationBudget focuses on cash flow and spending.
	RecommendationBudget RecommendationType = "budget"
	// RecommendationInvestment focuses on asset allocation and growth.
	RecommendationInvestment RecommendationType = "investment"
	// RecommendationDebt focuses on loan payoff strategy.
	RecommendationDebt RecommendationType = "debt"
	// RecommendationCredit focuses on credit card usage and utilization.
	RecommendationCredit RecommendationType = "credit"
)

// AllRecommendationTypes returns every recommendation type in a stable order.
func AllRecommendationTypes() []RecommendationType {
	return []RecommendationType{
		RecommendationGeneral,
		RecommendationBudget,
		RecommendationInvestment,
		RecommendationDebt,
		RecommendationCredit,
	}
}

// Valid reports whether t is a known recommendation type.
func (t RecommendationType) Valid() bool {
	for _, known := range AllRecommendationTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseRecommendationType converts user input into a RecommendationType.
func ParseRecommendationType(s string) (RecommendationType, error) {
	t := RecommendationType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown recommendation type %q (valid: general, budget, investment, debt, credit)", s)
	}
	return t, nil
}

// Scope selects which records feed an aggregation.
// An empty Owner selects every record in the store.
type Scope struct {
	Owner string `json:"owner,omitempty"`
}

// String implements fmt.Stringer for log output.
func (s Scope) String() string {
	if s.Owner == "" {
		return "all"
	}
	return s.Owner
}
