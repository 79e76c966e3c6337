package model

import (
	"fmt"
	"time"
)

// LiabilityType groups liabilities for breakdowns.
type LiabilityType string

const (
	// LiabilityMortgage is a home loan.
	LiabilityMortgage LiabilityType = "mortgage"
	// LiabilityAutoLoan is a vehicle loan.
	LiabilityAutoLoan LiabilityType = "auto-loan"
	// LiabilityStudentLoan is an education loan.
	LiabilityStudentLoan LiabilityType = "student-loan"
	// LiabilityPersonalLoan is an unsecured personal loan.
	LiabilityPersonalLoan LiabilityType = "personal-loan"
	// LiabilityMedical is outstanding medical debt.
	LiabilityMedical LiabilityType = "medical"
	// LiabilityOther is anything else.
	LiabilityOther LiabilityType = "other"
)

// Valid reports whether t is a known liability type.
func (t LiabilityType) Valid() bool {
	switch t {
	case LiabilityMortgage, LiabilityAutoLoan, LiabilityStudentLoan,
		LiabilityPersonalLoan, LiabilityMedical, LiabilityOther:
		return true
	}
	return false
}

// Liability is money owed by an owner, excluding credit cards.
type Liability struct {
	CreatedAt         time.Time     `json:"created_at" yaml:"-"`
	ID                string        `json:"id" yaml:"id,omitempty"`
	Owner             string        `json:"owner" yaml:"-"`
	Name              string        `json:"name" yaml:"name"`
	Type              LiabilityType `json:"type" yaml:"type"`
	OutstandingAmount float64       `json:"outstanding_amount" yaml:"outstanding_amount"`
	InterestRate      float64       `json:"interest_rate" yaml:"interest_rate"` // annual percentage
	MonthlyPayment    float64       `json:"monthly_payment" yaml:"monthly_payment"`
}

// Validate performs the basic shape checks required before aggregation.
func (l *Liability) Validate() error {
	for field, v := range map[string]float64{
		"outstanding amount": l.OutstandingAmount,
		"interest rate":      l.InterestRate,
		"monthly payment":    l.MonthlyPayment,
	} {
		if err := validateAmount(field, v); err != nil {
			return fmt.Errorf("liability %q: %w", l.Name, err)
		}
	}
	if !l.Type.Valid() {
		return fmt.Errorf("liability %q: unknown type %q", l.Name, l.Type)
	}
	return nil
}
