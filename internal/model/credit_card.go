package model

import (
	"fmt"
	"time"
)

// CreditCard is a revolving credit line held by an owner.
type CreditCard struct {
	DueDate            time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	CreatedAt          time.Time `json:"created_at" yaml:"-"`
	ID                 string    `json:"id" yaml:"id,omitempty"`
	Owner              string    `json:"owner" yaml:"-"`
	CardName           string    `json:"card_name" yaml:"card_name"`
	Issuer             string    `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	CreditLimit        float64   `json:"credit_limit" yaml:"credit_limit"`
	OutstandingBalance float64   `json:"outstanding_balance" yaml:"outstanding_balance"`
	InterestRate       float64   `json:"interest_rate" yaml:"interest_rate"` // APR percentage
	MinimumPayment     float64   `json:"minimum_payment" yaml:"minimum_payment"`
}

// Validate performs the basic shape checks required before aggregation.
func (c *CreditCard) Validate() error {
	for field, v := range map[string]float64{
		"credit limit":        c.CreditLimit,
		"outstanding balance": c.OutstandingBalance,
		"interest rate":       c.InterestRate,
		"minimum payment":     c.MinimumPayment,
	} {
		if err := validateAmount(field, v); err != nil {
			return fmt.Errorf("credit card %q: %w", c.CardName, err)
		}
	}
	return nil
}

// UtilizationRate returns balance over limit as a percentage; zero when the limit is zero.
func (c *CreditCard) UtilizationRate() float64 {
	if c.CreditLimit <= 0 {
		return 0
	}
	return c.OutstandingBalance / c.CreditLimit * 100
}
