package entity

import (
	"strings"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// TargetKind represents how a budget target's value is interpreted.
type TargetKind string

const (
	// TargetKindDollar is an absolute dollar amount.
	TargetKindDollar TargetKind = "dollar"
	// TargetKindPercentIncome is a fraction in [0, 1] of the period's total income.
	TargetKindPercentIncome TargetKind = "percent_income"
)

// ParseTargetKind parses a target kind string.
func ParseTargetKind(s string) (TargetKind, error) {
	switch strings.ToLower(s) {
	case string(TargetKindDollar):
		return TargetKindDollar, nil
	case string(TargetKindPercentIncome):
		return TargetKindPercentIncome, nil
	default:
		return "", domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidTargetKind,
			"target kind must be 'dollar' or 'percent_income'",
			domainerror.ErrInvalidTargetKind,
		)
	}
}

// BudgetTarget is the spending or income amount a class aims for through a
// budget cycle.
type BudgetTarget struct {
	Value float64
	Kind  TargetKind
}

// NewBudgetTarget creates a BudgetTarget, rejecting percent-of-income values
// outside [0, 1].
func NewBudgetTarget(value float64, kind TargetKind) (*BudgetTarget, error) {
	if kind == TargetKindPercentIncome && (value < 0.0 || value > 1.0) {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeTargetOutOfRange,
			"percent-of-income target value must be within [0, 1]",
			domainerror.ErrTargetPercentOutOfRange,
		)
	}
	return &BudgetTarget{Value: value, Kind: kind}, nil
}

// Resolve computes the target's dollar amount. Percent-of-income targets
// require the period's total income; dollar targets ignore it.
func (t *BudgetTarget) Resolve(totalIncome *float64) (float64, error) {
	if t.Kind == TargetKindPercentIncome {
		if totalIncome == nil {
			return 0, domainerror.NewBudgetError(
				domainerror.ErrCodeTargetNeedsIncome,
				"resolving a percent-of-income target requires a total income",
				domainerror.ErrTargetNeedsIncome,
			)
		}
		return t.Value * *totalIncome, nil
	}
	return t.Value, nil
}
