package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// BudgetClassType represents the type of a budget class (expense or income).
type BudgetClassType string

const (
	BudgetClassTypeExpense BudgetClassType = "expense"
	BudgetClassTypeIncome  BudgetClassType = "income"
)

// ParseBudgetClassType parses a user-supplied type string. The short forms
// "e" and "i" are accepted alongside the full names.
func ParseBudgetClassType(s string) (BudgetClassType, error) {
	switch strings.ToLower(s) {
	case "e", "expense", "expenses":
		return BudgetClassTypeExpense, nil
	case "i", "income":
		return BudgetClassTypeIncome, nil
	default:
		return "", domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidClassType,
			"class type must be 'expense' or 'income'",
			domainerror.ErrInvalidClassType,
		)
	}
}

// BudgetClass represents a single category of budgeting: a named bucket of
// transactions with keyword matching and reset behavior. Name uniqueness
// across a ledger is enforced by the Ledger, not here.
type BudgetClass struct {
	ID          string
	Name        string
	Type        BudgetClassType
	Description string
	Keywords    []string
	History     []*Transaction
	Target      *BudgetTarget

	// LastReset tracks when this class's history was last cleared for a
	// budget cycle. Nil means the class has never been reset.
	LastReset *time.Time
}

// NewBudgetClass creates a new BudgetClass with a generated ID. Keywords are
// lowercased for matching. The target is optional.
func NewBudgetClass(name string, classType BudgetClassType, description string, keywords []string, target *BudgetTarget) *BudgetClass {
	kws := make([]string, len(keywords))
	for i, w := range keywords {
		kws[i] = strings.ToLower(w)
	}

	return &BudgetClass{
		ID:          deriveClassID(name, classType, description, kws),
		Name:        name,
		Type:        classType,
		Description: description,
		Keywords:    kws,
		History:     []*Transaction{},
		Target:      target,
	}
}

// deriveClassID hashes the class's content fields plus the creation instant.
func deriveClassID(name string, classType BudgetClassType, description string, keywords []string) string {
	seed := name + description + string(classType) + strings.Join(keywords, "")
	seed += fmt.Sprintf("%d", time.Now().UnixNano())
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether the lowercased query is a substring of any keyword.
func (c *BudgetClass) Matches(query string) bool {
	query = strings.ToLower(query)
	for _, word := range c.Keywords {
		if strings.Contains(word, query) {
			return true
		}
	}
	return false
}

// Add appends a transaction to the history and sets its owner back-reference.
// Duplicate IDs are not defended against; the hash construction makes them
// astronomically unlikely.
func (c *BudgetClass) Add(t *Transaction) {
	t.OwnerClassID = c.ID
	c.History = append(c.History, t)
}

// Remove removes a transaction from the history by identity and clears its
// owner back-reference. It fails when the transaction is not present.
func (c *BudgetClass) Remove(t *Transaction) error {
	for i, held := range c.History {
		if held.ID == t.ID {
			c.History = append(c.History[:i], c.History[i+1:]...)
			t.OwnerClassID = ""
			return nil
		}
	}
	return domainerror.NewBudgetError(
		domainerror.ErrCodeTransactionNotInClass,
		fmt.Sprintf("class %q does not hold the transaction", c.Name),
		domainerror.ErrTransactionNotInClass,
	)
}

// SortedDescending returns the owned transactions ordered by timestamp with
// the most recent first. The stored history order is left untouched.
func (c *BudgetClass) SortedDescending() []*Transaction {
	sorted := make([]*Transaction, len(c.History))
	copy(sorted, c.History)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

// Reset clears every non-recurring transaction from the history and records
// the reset instant. Recurring transactions survive into the next cycle.
// Calling it again with the same occurrence is a no-op on history but still
// refreshes LastReset.
func (c *BudgetClass) Reset(now time.Time) {
	kept := c.History[:0]
	for _, t := range c.History {
		if t.Recurring {
			kept = append(kept, t)
		}
	}
	c.History = kept
	c.LastReset = &now
}

// Copy returns a shallow, ID-preserving duplicate. Keyword and history slices
// are copied so edits on the duplicate do not leak back.
func (c *BudgetClass) Copy() *BudgetClass {
	dup := *c
	dup.Keywords = append([]string(nil), c.Keywords...)
	dup.History = append([]*Transaction(nil), c.History...)
	return &dup
}

// FileName maps the class's name to its on-disk file name: lowercased, spaces
// replaced by underscores, plus the JSON extension.
func (c *BudgetClass) FileName() string {
	name := strings.ToLower(c.Name)
	name = strings.ReplaceAll(name, " ", "_")
	return name + ".json"
}

// String builds a short human-readable representation.
func (c *BudgetClass) String() string {
	typeStr := "EXP"
	if c.Type == BudgetClassTypeIncome {
		typeStr = "INC"
	}
	return fmt.Sprintf("%s (%s): %s", c.Name, typeStr, c.Description)
}
