package entity

import (
	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// SavingsCategory describes how a slice of a cycle's surplus is set aside.
type SavingsCategory struct {
	Name    string
	Percent float64
}

// NewSavingsCategory creates a SavingsCategory, rejecting percentages outside [0, 1].
func NewSavingsCategory(name string, percent float64) (SavingsCategory, error) {
	if percent < 0.0 || percent > 1.0 {
		return SavingsCategory{}, domainerror.NewBudgetError(
			domainerror.ErrCodeSavingsOutOfRange,
			"savings percent must be within [0, 1]",
			domainerror.ErrSavingsPercentOutOfRange,
		)
	}
	return SavingsCategory{Name: name, Percent: percent}, nil
}

// ValidateSavingsCategories checks that the percentages across all categories
// do not sum above 1.0.
func ValidateSavingsCategories(categories []SavingsCategory) error {
	total := 0.0
	for _, sc := range categories {
		total += sc.Percent
	}
	if total > 1.0 {
		return domainerror.NewBudgetError(
			domainerror.ErrCodeSavingsOutOfRange,
			"savings percentages sum above 100%",
			domainerror.ErrSavingsPercentExceeded,
		)
	}
	return nil
}

// SavingsAllocation is the dollar amount assigned to one savings category for
// a cycle's surplus.
type SavingsAllocation struct {
	Category SavingsCategory
	Amount   float64
}

// AllocateSavings splits a cycle's surplus across the savings categories by
// their percentages. A non-positive surplus allocates zero everywhere.
func AllocateSavings(categories []SavingsCategory, surplus float64) []SavingsAllocation {
	allocations := make([]SavingsAllocation, len(categories))
	for i, sc := range categories {
		amount := 0.0
		if surplus > 0 {
			amount = sc.Percent * surplus
		}
		allocations[i] = SavingsAllocation{Category: sc, Amount: amount}
	}
	return allocations
}
