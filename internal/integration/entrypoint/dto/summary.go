package dto

import (
	"time"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/application/usecase/budget"
)

// AllocationResponse is one savings category's share of the period surplus.
type AllocationResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// SummaryResponse is the wire form of the current period's financials.
type SummaryResponse struct {
	TotalIncome  float64              `json:"total_income"`
	TotalExpense float64              `json:"total_expense"`
	Surplus      float64              `json:"surplus"`
	Allocations  []AllocationResponse `json:"allocations"`
}

// ToSummaryResponse converts a period summary to its wire form.
func ToSummaryResponse(s budget.PeriodSummary) SummaryResponse {
	allocations := make([]AllocationResponse, len(s.Allocations))
	for i, a := range s.Allocations {
		allocations[i] = AllocationResponse{Category: a.Category.Name, Amount: a.Amount}
	}
	return SummaryResponse{
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		Surplus:      s.Surplus,
		Allocations:  allocations,
	}
}

// ResetEventResponse is the wire form of one recorded cycle reset.
type ResetEventResponse struct {
	ID               string    `json:"id"`
	PeriodKey        string    `json:"period_key"`
	AffectedClassIDs []string  `json:"affected_class_ids"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// ToResetEventListResponse converts recorded reset events to their wire form.
func ToResetEventListResponse(events []*adapter.ResetEvent) []ResetEventResponse {
	out := make([]ResetEventResponse, len(events))
	for i, e := range events {
		out[i] = ResetEventResponse{
			ID:               e.ID.String(),
			PeriodKey:        e.PeriodKey,
			AffectedClassIDs: e.AffectedClassIDs,
			OccurredAt:       e.OccurredAt,
		}
	}
	return out
}
