package model

import (
	"fmt"
	"math"
	"time"
)

// Frequency describes how often an income stream pays out.
type Frequency string

const (
	// FrequencyMonthly pays once a month.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyYearly pays once a year.
	FrequencyYearly Frequency = "yearly"
	// FrequencyQuarterly pays once every three months.
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyBiWeekly pays every two weeks.
	FrequencyBiWeekly Frequency = "bi-weekly"
	// FrequencyWeekly pays every week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyDaily pays every day.
	FrequencyDaily Frequency = "daily"
	// FrequencyOneTime is a single, non-recurring payment.
	FrequencyOneTime Frequency = "one-time"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyYearly, FrequencyQuarterly, FrequencyBiWeekly,
		FrequencyWeekly, FrequencyDaily, FrequencyOneTime:
		return true
	}
	return false
}

// Recurring reports whether the frequency contributes to monthly income.
func (f Frequency) Recurring() bool {
	return f.Valid() && f != FrequencyOneTime
}

// Income is a single income stream belonging to an owner.
type Income struct {
	ReceivedAt time.Time `json:"received_at,omitempty" yaml:"received_at,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
	ID         string    `json:"id" yaml:"id,omitempty"`
	Owner      string    `json:"owner" yaml:"-"`
	Source     string    `json:"source" yaml:"source"`
	Category   string    `json:"category" yaml:"category"`
	Frequency  Frequency `json:"frequency" yaml:"frequency"`
	Amount     float64   `json:"amount" yaml:"amount"`
}

// Validate performs the basic shape checks required before aggregation.
func (i *Income) Validate() error {
	if err := validateAmount("amount", i.Amount); err != nil {
		return fmt.Errorf("income %q: %w", i.Source, err)
	}
	if !i.Frequency.Valid() {
		return fmt.Errorf("income %q: unknown frequency %q", i.Source, i.Frequency)
	}
	return nil
}

// validateAmount rejects negative and non-finite money values.
func validateAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s is not a finite number", field)
	}
	if v < 0 {
		return fmt.Errorf("%s must be non-negative, got %.2f", field, v)
	}
	return nil
}
