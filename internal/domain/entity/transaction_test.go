package entity

import (
	"errors"
	"strconv"
	"testing"
	"time"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

func TestNewTransaction(t *testing.T) {
	t.Run("rejects a negative price", func(t *testing.T) {
		_, err := NewTransaction(-1.50, "store", "refund gone wrong", time.Now(), false)
		if err == nil {
			t.Fatal("expected an error for a negative price")
		}
		if !errors.Is(err, domainerror.ErrNegativePrice) {
			t.Errorf("expected ErrNegativePrice, got %v", err)
		}
	})

	t.Run("accepts a zero price", func(t *testing.T) {
		tx, err := NewTransaction(0, "store", "freebie", time.Now(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.Price != 0 {
			t.Errorf("expected price 0, got %v", tx.Price)
		}
	})

	t.Run("defaults a zero timestamp to now", func(t *testing.T) {
		before := time.Now()
		tx, err := NewTransaction(5, "store", "", time.Time{}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.Timestamp.Before(before) {
			t.Errorf("expected timestamp defaulted to creation time, got %v", tx.Timestamp)
		}
	})

	t.Run("derives distinct IDs for identical inputs", func(t *testing.T) {
		ts := time.Now()
		a, _ := NewTransaction(9.99, "store", "same", ts, false)
		b, _ := NewTransaction(9.99, "store", "same", ts, false)
		if a.ID == b.ID {
			t.Error("expected distinct IDs for back-to-back identical transactions")
		}
	})
}

func TestTransaction_Matches(t *testing.T) {
	ts := time.Date(2022, time.March, 5, 12, 0, 0, 0, time.UTC)
	tx, err := NewTransaction(7.98, "Weber", "cookout supplies", ts, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("matches the vendor case-insensitively", func(t *testing.T) {
		if !tx.Matches("weBER") {
			t.Error("expected vendor substring to match")
		}
	})

	t.Run("matches a description substring", func(t *testing.T) {
		if !tx.Matches("cookout") {
			t.Error("expected description substring to match")
		}
	})

	t.Run("matches a price substring", func(t *testing.T) {
		if !tx.Matches("7.9") {
			t.Error("expected price substring to match")
		}
	})

	t.Run("matches the exact epoch timestamp", func(t *testing.T) {
		if !tx.Matches(strconv.FormatInt(ts.Unix(), 10)) {
			t.Error("expected the epoch-second serialization to match")
		}
	})

	t.Run("rejects an unrelated query", func(t *testing.T) {
		if tx.Matches("groceries") {
			t.Error("expected no match for an unrelated query")
		}
	})
}

func TestTransaction_String(t *testing.T) {
	ts := time.Date(2022, time.March, 5, 12, 0, 0, 0, time.UTC)
	tx, _ := NewTransaction(7.98, "Weber", "cookout supplies", ts, false)

	want := "2022-03-05 $7.98 (Weber): cookout supplies"
	if got := tx.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
