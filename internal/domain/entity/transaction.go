// Package entity defines the core business entities for the domain layer.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// Transaction represents a single expense or income event. The price is always
// stored as a positive magnitude; its sign is implied by the type of the class
// that owns it.
type Transaction struct {
	ID          string
	Price       float64
	Vendor      string
	Description string
	Timestamp   time.Time
	Recurring   bool

	// OwnerClassID is a non-owning back-reference to the owning budget class.
	// It is set when the transaction is added to a class and cleared on removal.
	OwnerClassID string
}

// NewTransaction creates a new Transaction with a freshly derived ID.
// A zero timestamp defaults to the creation time. The price must not be
// negative; callers infer the sign from the owning class's type.
func NewTransaction(price float64, vendor, description string, timestamp time.Time, recurring bool) (*Transaction, error) {
	if price < 0 {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeNegativePrice,
			"transaction price must be a positive magnitude",
			domainerror.ErrNegativePrice,
		)
	}

	now := time.Now()
	if timestamp.IsZero() {
		timestamp = now
	}

	return &Transaction{
		ID:          deriveTransactionID(price, vendor, description, timestamp, now),
		Price:       price,
		Vendor:      vendor,
		Description: description,
		Timestamp:   timestamp,
		Recurring:   recurring,
	}, nil
}

// deriveTransactionID hashes the transaction's content fields together with the
// creation instant. The creation-time salt keeps IDs unique even when two
// identical entries are recorded back to back.
func deriveTransactionID(price float64, vendor, description string, timestamp, createdAt time.Time) string {
	seed := fmt.Sprintf("%v%s%s%v%d", price, vendor, description, timestamp, createdAt.UnixNano())
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether the free-text query matches this transaction.
// The query matches when it is a case-insensitive substring of the vendor or
// description, a substring of the price's decimal serialization, or equal to
// the timestamp's epoch-second serialization.
func (t *Transaction) Matches(query string) bool {
	query = strings.ToLower(query)

	if secs, err := strconv.ParseInt(query, 10, 64); err == nil && secs == t.Timestamp.Unix() {
		return true
	}
	if strings.Contains(strconv.FormatFloat(t.Price, 'f', -1, 64), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Vendor), query)
}

// DollarString renders the price as a dollar amount.
func (t *Transaction) DollarString() string {
	return fmt.Sprintf("$%.2f", t.Price)
}

// DateString renders the timestamp as a calendar date.
func (t *Transaction) DateString() string {
	return t.Timestamp.Format("2006-01-02")
}

// String builds a human-readable one-line representation.
func (t *Transaction) String() string {
	s := t.DateString() + " " + t.DollarString()
	if t.Vendor != "" {
		s += " (" + t.Vendor + ")"
	}
	if t.Description != "" {
		s += ": " + t.Description
	}
	return s
}
