package budget

import (
	"github.com/snowbudget/backend/internal/domain/entity"
)

// PeriodSummary aggregates the current period's financials: totals per class
// type, the surplus, and how that surplus splits across savings categories.
type PeriodSummary struct {
	TotalIncome  float64
	TotalExpense float64
	Surplus      float64
	Allocations  []entity.SavingsAllocation
}

// Summarize computes the period summary over every loaded class.
func (l *Ledger) Summarize() PeriodSummary {
	var income, expense float64
	for _, class := range l.classes {
		total := classTotal(class)
		if class.Type == entity.BudgetClassTypeIncome {
			income += total
		} else {
			expense += total
		}
	}

	surplus := income - expense
	return PeriodSummary{
		TotalIncome:  income,
		TotalExpense: expense,
		Surplus:      surplus,
		Allocations:  entity.AllocateSavings(l.spec.Savings, surplus),
	}
}

// ResolveTarget resolves a class's target to a dollar amount, supplying the
// period's total income for percent-of-income targets. A class without a
// target resolves to nil.
func (l *Ledger) ResolveTarget(class *entity.BudgetClass) (*float64, error) {
	if class.Target == nil {
		return nil, nil
	}

	var totalIncome *float64
	if class.Target.Kind == entity.TargetKindPercentIncome {
		income := l.Summarize().TotalIncome
		totalIncome = &income
	}

	amount, err := class.Target.Resolve(totalIncome)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

func classTotal(class *entity.BudgetClass) float64 {
	total := 0.0
	for _, t := range class.History {
		total += t.Price
	}
	return total
}
