package dto

import (
	"encoding/json"
	"time"

	"github.com/snowbudget/backend/internal/domain/entity"
)

// RequestMeta carries the optional fields every budget request may set: a
// client-supplied "now" (epoch seconds) and whether to email the outcome.
type RequestMeta struct {
	Datetime *float64 `json:"datetime,omitempty"`
	Notify   bool     `json:"notify,omitempty"`
}

// EffectiveTime resolves the instant a request should be evaluated at.
func (m RequestMeta) EffectiveTime() time.Time {
	if m.Datetime != nil && *m.Datetime != 0 {
		return time.Unix(int64(*m.Datetime), 0)
	}
	return time.Now()
}

// GetClassRequest asks for one class by ID.
type GetClassRequest struct {
	RequestMeta
	ClassID string `json:"class_id"`
}

// GetTransactionRequest asks for one transaction by ID.
type GetTransactionRequest struct {
	RequestMeta
	TransactionID string `json:"transaction_id"`
}

// SearchRequest carries a keyword query for class or transaction search.
type SearchRequest struct {
	RequestMeta
	Query string `json:"query"`
}

// TargetRequest is the optional target attached to a class.
type TargetRequest struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
}

// CreateClassRequest carries the fields of a new budget class.
type CreateClassRequest struct {
	RequestMeta
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Keywords    []string       `json:"keywords"`
	Target      *TargetRequest `json:"target,omitempty"`
}

// CreateTransactionRequest records a transaction against a class by ID.
type CreateTransactionRequest struct {
	RequestMeta
	ClassID     string   `json:"class_id"`
	Price       *float64 `json:"price"`
	Vendor      string   `json:"vendor"`
	Description string   `json:"description"`
	Timestamp   *int64   `json:"timestamp"`
	Recurring   bool     `json:"recurring"`
}

// CreateTransactionSearchRequest records a transaction against the first class
// matching a keyword query instead of an explicit ID.
type CreateTransactionSearchRequest struct {
	RequestMeta
	Query       string   `json:"query"`
	Price       *float64 `json:"price"`
	Vendor      string   `json:"vendor"`
	Description string   `json:"description"`
	Timestamp   *int64   `json:"timestamp"`
}

// DeleteClassRequest deletes one class by ID.
type DeleteClassRequest struct {
	RequestMeta
	ClassID string `json:"class_id"`
}

// DeleteTransactionRequest deletes one transaction by ID.
type DeleteTransactionRequest struct {
	RequestMeta
	TransactionID string `json:"transaction_id"`
}

// EditClassRequest updates any subset of a class's mutable fields. The target
// is kept raw so a "target": null (clear it) can be told apart from an absent
// key (leave it alone).
type EditClassRequest struct {
	RequestMeta
	ClassID     string          `json:"class_id"`
	Name        *string         `json:"name,omitempty"`
	Type        *string         `json:"type,omitempty"`
	Description *string         `json:"description,omitempty"`
	Keywords    *[]string       `json:"keywords,omitempty"`
	Target      json.RawMessage `json:"target,omitempty"`
}

// TargetChange decodes the raw target field. It reports whether the key was
// present; a present null yields a nil target, meaning "clear it".
func (r *EditClassRequest) TargetChange() (*TargetRequest, bool, error) {
	if len(r.Target) == 0 {
		return nil, false, nil
	}
	if string(r.Target) == "null" {
		return nil, true, nil
	}
	var target TargetRequest
	if err := json.Unmarshal(r.Target, &target); err != nil {
		return nil, true, err
	}
	return &target, true, nil
}

// EditTransactionRequest updates any subset of a transaction's fields, and
// optionally moves it to another class.
type EditTransactionRequest struct {
	RequestMeta
	TransactionID string   `json:"transaction_id"`
	ClassID       *string  `json:"class_id,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Vendor        *string  `json:"vendor,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Timestamp     *float64 `json:"timestamp,omitempty"`
	Recurring     *bool    `json:"recurring,omitempty"`
}

// SuggestClassRequest asks for the budget class best matching a transaction's
// text.
type SuggestClassRequest struct {
	RequestMeta
	Vendor      string `json:"vendor"`
	Description string `json:"description"`
}

// TransactionResponse is the wire form of a transaction.
type TransactionResponse struct {
	ID          string  `json:"id"`
	Price       float64 `json:"price"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
	Recurring   bool    `json:"recurring"`
}

// ClassResponse is the wire form of a budget class.
type ClassResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Type        string                `json:"type"`
	Description string                `json:"description"`
	Keywords    []string              `json:"keywords"`
	History     []TransactionResponse `json:"history"`
	Target      *TargetRequest        `json:"target,omitempty"`
}

// SavingsCategoryResponse is the wire form of one savings category.
type SavingsCategoryResponse struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
}

// SuggestionResponse is the wire form of a class suggestion.
type SuggestionResponse struct {
	ClassID    string  `json:"class_id"`
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ToTransactionResponse converts a transaction entity to its wire form.
func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Price:       t.Price,
		Vendor:      t.Vendor,
		Description: t.Description,
		Timestamp:   t.Timestamp.Unix(),
		Recurring:   t.Recurring,
	}
}

// ToTransactionListResponse converts a transaction listing to its wire form.
func ToTransactionListResponse(transactions []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		out[i] = ToTransactionResponse(t)
	}
	return out
}

// ToClassResponse converts a budget class entity to its wire form.
func ToClassResponse(class *entity.BudgetClass) ClassResponse {
	resp := ClassResponse{
		ID:          class.ID,
		Name:        class.Name,
		Type:        string(class.Type),
		Description: class.Description,
		Keywords:    class.Keywords,
		History:     ToTransactionListResponse(class.History),
	}
	if class.Target != nil {
		resp.Target = &TargetRequest{Value: class.Target.Value, Type: string(class.Target.Kind)}
	}
	return resp
}

// ToClassListResponse converts a class listing to its wire form.
func ToClassListResponse(classes []*entity.BudgetClass) []ClassResponse {
	out := make([]ClassResponse, len(classes))
	for i, class := range classes {
		out[i] = ToClassResponse(class)
	}
	return out
}

// ToSavingsListResponse converts savings categories to their wire form.
func ToSavingsListResponse(categories []entity.SavingsCategory) []SavingsCategoryResponse {
	out := make([]SavingsCategoryResponse, len(categories))
	for i, sc := range categories {
		out[i] = SavingsCategoryResponse{Category: sc.Name, Percent: sc.Percent}
	}
	return out
}
