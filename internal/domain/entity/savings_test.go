package entity

import (
	"errors"
	"math"
	"testing"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

func TestNewSavingsCategory(t *testing.T) {
	if _, err := NewSavingsCategory("emergency", 0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewSavingsCategory("emergency", 1.2); !errors.Is(err, domainerror.ErrSavingsPercentOutOfRange) {
		t.Errorf("expected ErrSavingsPercentOutOfRange, got %v", err)
	}
	if _, err := NewSavingsCategory("emergency", -0.2); !errors.Is(err, domainerror.ErrSavingsPercentOutOfRange) {
		t.Errorf("expected ErrSavingsPercentOutOfRange, got %v", err)
	}
}

func TestValidateSavingsCategories(t *testing.T) {
	ok := []SavingsCategory{
		{Name: "emergency", Percent: 0.5},
		{Name: "travel", Percent: 0.3},
		{Name: "gifts", Percent: 0.2},
	}
	if err := ValidateSavingsCategories(ok); err != nil {
		t.Errorf("unexpected error for a full split: %v", err)
	}

	over := append(ok, SavingsCategory{Name: "extra", Percent: 0.1})
	if err := ValidateSavingsCategories(over); !errors.Is(err, domainerror.ErrSavingsPercentExceeded) {
		t.Errorf("expected ErrSavingsPercentExceeded, got %v", err)
	}
}

func TestAllocateSavings(t *testing.T) {
	categories := []SavingsCategory{
		{Name: "emergency", Percent: 0.5},
		{Name: "travel", Percent: 0.25},
		{Name: "gifts", Percent: 0.1},
	}

	t.Run("splits a positive surplus by percent", func(t *testing.T) {
		allocations := AllocateSavings(categories, 200)
		want := []float64{100, 50, 20}
		for i, a := range allocations {
			if math.Abs(a.Amount-want[i]) > 1e-9 {
				t.Errorf("allocation %q: expected %v, got %v", a.Category.Name, want[i], a.Amount)
			}
		}
	})

	t.Run("allocates zero for a deficit", func(t *testing.T) {
		for _, a := range AllocateSavings(categories, -50) {
			if a.Amount != 0 {
				t.Errorf("expected zero allocation for %q, got %v", a.Category.Name, a.Amount)
			}
		}
	})

	t.Run("keeps the category order", func(t *testing.T) {
		allocations := AllocateSavings(categories, 100)
		if len(allocations) != 3 || allocations[0].Category.Name != "emergency" {
			t.Error("expected allocations to mirror the category order")
		}
	})
}
