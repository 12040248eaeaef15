package entity

import (
	"errors"
	"testing"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

func TestNewBudgetTarget(t *testing.T) {
	t.Run("accepts any dollar value", func(t *testing.T) {
		target, err := NewBudgetTarget(2500, TargetKindDollar)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target.Value != 2500 {
			t.Errorf("expected value 2500, got %v", target.Value)
		}
	})

	t.Run("rejects a percent target above 1", func(t *testing.T) {
		_, err := NewBudgetTarget(1.5, TargetKindPercentIncome)
		if !errors.Is(err, domainerror.ErrTargetPercentOutOfRange) {
			t.Errorf("expected ErrTargetPercentOutOfRange, got %v", err)
		}
	})

	t.Run("rejects a negative percent target", func(t *testing.T) {
		_, err := NewBudgetTarget(-0.1, TargetKindPercentIncome)
		if !errors.Is(err, domainerror.ErrTargetPercentOutOfRange) {
			t.Errorf("expected ErrTargetPercentOutOfRange, got %v", err)
		}
	})
}

func TestParseTargetKind(t *testing.T) {
	if kind, err := ParseTargetKind("DOLLAR"); err != nil || kind != TargetKindDollar {
		t.Errorf("expected dollar kind, got %v (%v)", kind, err)
	}
	if kind, err := ParseTargetKind("percent_income"); err != nil || kind != TargetKindPercentIncome {
		t.Errorf("expected percent_income kind, got %v (%v)", kind, err)
	}
	if _, err := ParseTargetKind("fraction"); !errors.Is(err, domainerror.ErrInvalidTargetKind) {
		t.Errorf("expected ErrInvalidTargetKind, got %v", err)
	}
}

func TestBudgetTarget_Resolve(t *testing.T) {
	income := 4000.0

	t.Run("dollar target ignores income", func(t *testing.T) {
		target, _ := NewBudgetTarget(300, TargetKindDollar)
		got, err := target.Resolve(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 300 {
			t.Errorf("expected 300, got %v", got)
		}
	})

	t.Run("percent target scales income", func(t *testing.T) {
		target, _ := NewBudgetTarget(0.25, TargetKindPercentIncome)
		got, err := target.Resolve(&income)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 1000 {
			t.Errorf("expected 1000, got %v", got)
		}
	})

	t.Run("percent target requires income", func(t *testing.T) {
		target, _ := NewBudgetTarget(0.25, TargetKindPercentIncome)
		if _, err := target.Resolve(nil); !errors.Is(err, domainerror.ErrTargetNeedsIncome) {
			t.Errorf("expected ErrTargetNeedsIncome, got %v", err)
		}
	})
}
