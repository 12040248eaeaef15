package entity

import (
	"errors"
	"testing"
	"time"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

func newTestClass(t *testing.T) *BudgetClass {
	t.Helper()
	return NewBudgetClass("Dining Out", BudgetClassTypeExpense,
		"Restaurants and takeout", []string{"Dining", "RESTAURANT"}, nil)
}

func TestNewBudgetClass(t *testing.T) {
	class := newTestClass(t)

	t.Run("lowercases keywords", func(t *testing.T) {
		for _, word := range class.Keywords {
			if word != "dining" && word != "restaurant" {
				t.Errorf("expected lowercased keywords, got %q", word)
			}
		}
	})

	t.Run("starts with an empty history and no reset", func(t *testing.T) {
		if len(class.History) != 0 {
			t.Errorf("expected empty history, got %d entries", len(class.History))
		}
		if class.LastReset != nil {
			t.Error("expected a fresh class to have never been reset")
		}
	})
}

func TestParseBudgetClassType(t *testing.T) {
	cases := []struct {
		input string
		want  BudgetClassType
	}{
		{"e", BudgetClassTypeExpense},
		{"Expense", BudgetClassTypeExpense},
		{"expenses", BudgetClassTypeExpense},
		{"i", BudgetClassTypeIncome},
		{"INCOME", BudgetClassTypeIncome},
	}
	for _, tc := range cases {
		got, err := ParseBudgetClassType(tc.input)
		if err != nil {
			t.Errorf("ParseBudgetClassType(%q) returned error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseBudgetClassType(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}

	if _, err := ParseBudgetClassType("savings"); !errors.Is(err, domainerror.ErrInvalidClassType) {
		t.Errorf("expected ErrInvalidClassType for unknown type, got %v", err)
	}
}

func TestBudgetClass_Matches(t *testing.T) {
	class := newTestClass(t)

	if !class.Matches("dini") {
		t.Error("expected keyword substring to match")
	}
	if !class.Matches("RESTAURANT") {
		t.Error("expected case-insensitive keyword match")
	}
	if class.Matches("groceries") {
		t.Error("expected no match on the class name or description")
	}
}

func TestBudgetClass_AddRemove(t *testing.T) {
	class := newTestClass(t)
	tx, _ := NewTransaction(12.50, "cafe", "lunch", time.Now(), false)

	class.Add(tx)
	if tx.OwnerClassID != class.ID {
		t.Error("expected Add to set the owner back-reference")
	}
	if len(class.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(class.History))
	}

	if err := class.Remove(tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.OwnerClassID != "" {
		t.Error("expected Remove to clear the owner back-reference")
	}

	if err := class.Remove(tx); !errors.Is(err, domainerror.ErrTransactionNotInClass) {
		t.Errorf("expected ErrTransactionNotInClass on a second removal, got %v", err)
	}
}

func TestBudgetClass_Reset(t *testing.T) {
	class := newTestClass(t)
	oneOff, _ := NewTransaction(20, "cafe", "lunch", time.Now(), false)
	subscription, _ := NewTransaction(9.99, "stream co", "monthly plan", time.Now(), true)
	class.Add(oneOff)
	class.Add(subscription)

	resetAt := time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC)
	class.Reset(resetAt)

	if len(class.History) != 1 || class.History[0].ID != subscription.ID {
		t.Error("expected only the recurring transaction to survive the reset")
	}
	if class.LastReset == nil || !class.LastReset.Equal(resetAt) {
		t.Errorf("expected LastReset %v, got %v", resetAt, class.LastReset)
	}

	// A second reset is a history no-op but still advances LastReset.
	resetAgain := resetAt.Add(48 * time.Hour)
	class.Reset(resetAgain)

	if len(class.History) != 1 || class.History[0].ID != subscription.ID {
		t.Error("expected a second reset to leave the recurring history untouched")
	}
	if class.LastReset == nil || !class.LastReset.Equal(resetAgain) {
		t.Errorf("expected LastReset %v after a second reset, got %v", resetAgain, class.LastReset)
	}
}

func TestBudgetClass_Copy(t *testing.T) {
	class := newTestClass(t)
	tx, _ := NewTransaction(5, "cafe", "coffee", time.Now(), false)
	class.Add(tx)

	dup := class.Copy()
	if dup.ID != class.ID {
		t.Error("expected the copy to keep the same ID")
	}

	dup.Keywords = append(dup.Keywords, "brunch")
	other, _ := NewTransaction(3, "cafe", "tea", time.Now(), false)
	dup.History = append(dup.History, other)

	if len(class.Keywords) != 2 || len(class.History) != 1 {
		t.Error("expected edits on the copy not to leak back")
	}
}

func TestBudgetClass_FileName(t *testing.T) {
	class := NewBudgetClass("Dining Out", BudgetClassTypeExpense, "", nil, nil)
	if got := class.FileName(); got != "dining_out.json" {
		t.Errorf("expected dining_out.json, got %q", got)
	}
}
