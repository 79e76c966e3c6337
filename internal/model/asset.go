package model

import (
	"fmt"
	"time"
)

// AssetCategory groups assets for breakdowns.
type AssetCategory string

const (
	// AssetCash is cash and checking balances.
	AssetCash AssetCategory = "cash"
	// AssetSavings is savings and money-market balances.
	AssetSavings AssetCategory = "savings"
	// AssetInvestment is taxable brokerage holdings.
	AssetInvestment AssetCategory = "investment"
	// AssetRetirement is tax-advantaged retirement accounts.
	AssetRetirement AssetCategory = "retirement"
	// AssetRealEstate is property.
	AssetRealEstate AssetCategory = "real-estate"
	// AssetVehicle is cars and other vehicles.
	AssetVehicle AssetCategory = "vehicle"
	// AssetOther is anything else.
	AssetOther AssetCategory = "other"
)

// Valid reports whether c is a known asset category.
func (c AssetCategory) Valid() bool {
	switch c {
	case AssetCash, AssetSavings, AssetInvestment, AssetRetirement,
		AssetRealEstate, AssetVehicle, AssetOther:
		return true
	}
	return false
}

// Liquid reports whether the category counts toward an emergency fund.
func (c AssetCategory) Liquid() bool {
	return c == AssetCash || c == AssetSavings
}

// Asset is something of value held by an owner.
type Asset struct {
	CreatedAt    time.Time     `json:"created_at" yaml:"-"`
	ID           string        `json:"id" yaml:"id,omitempty"`
	Owner        string        `json:"owner" yaml:"-"`
	Name         string        `json:"name" yaml:"name"`
	Category     AssetCategory `json:"category" yaml:"category"`
	CurrentValue float64       `json:"current_value" yaml:"current_value"`
}

// Validate performs the basic shape checks required before aggregation.
func (a *Asset) Validate() error {
	if err := validateAmount("current value", a.CurrentValue); err != nil {
		return fmt.Errorf("asset %q: %w", a.Name, err)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("asset %q: unknown category %q", a.Name, a.Category)
	}
	return nil
}
