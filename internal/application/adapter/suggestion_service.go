package adapter

import (
	"context"

	"github.com/snowbudget/backend/internal/domain/entity"
)

// ClassSuggestion is one suggested budget class for a transaction.
type ClassSuggestion struct {
	ClassID    string
	ClassName  string
	Confidence float64 // 0.0 to 1.0
	Reasoning  string
}

// SuggestionService defines the interface for AI-assisted class suggestions:
// given a transaction's vendor and description, pick the most plausible budget
// class from the candidates.
type SuggestionService interface {
	// SuggestClass returns the best class suggestion for the transaction text.
	SuggestClass(ctx context.Context, vendor, description string, candidates []*entity.BudgetClass) (*ClassSuggestion, error)
}
