// Package model defines the persisted record shapes for the class files.
package model

import (
	"time"

	"github.com/snowbudget/backend/internal/domain/entity"
)

// TransactionRecord is the flat persisted form of a transaction. Timestamps
// are stored as epoch seconds.
type TransactionRecord struct {
	ID          string  `json:"id"`
	Price       float64 `json:"price"`
	Vendor      string  `json:"vendor"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
	Recurring   bool    `json:"recurring"`
}

// TargetRecord is the persisted form of a budget target.
type TargetRecord struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
}

// ClassRecord is the persisted form of one budget class file.
type ClassRecord struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	Description string              `json:"description"`
	Keywords    []string            `json:"keywords"`
	History     []TransactionRecord `json:"history"`
	Target      *TargetRecord       `json:"target,omitempty"`
	LastReset   *int64              `json:"last_reset,omitempty"`
}

// TransactionFromEntity converts a transaction entity to its record.
func TransactionFromEntity(t *entity.Transaction) TransactionRecord {
	return TransactionRecord{
		ID:          t.ID,
		Price:       t.Price,
		Vendor:      t.Vendor,
		Description: t.Description,
		Timestamp:   t.Timestamp.Unix(),
		Recurring:   t.Recurring,
	}
}

// ToEntity converts a transaction record back to its entity. The owner
// back-reference is re-attached by the owning class record.
func (r TransactionRecord) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:          r.ID,
		Price:       r.Price,
		Vendor:      r.Vendor,
		Description: r.Description,
		Timestamp:   time.Unix(r.Timestamp, 0),
		Recurring:   r.Recurring,
	}
}

// ClassFromEntity converts a budget class entity to its file record.
func ClassFromEntity(c *entity.BudgetClass) ClassRecord {
	history := make([]TransactionRecord, len(c.History))
	for i, t := range c.History {
		history[i] = TransactionFromEntity(t)
	}

	record := ClassRecord{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		Description: c.Description,
		Keywords:    c.Keywords,
		History:     history,
	}
	if c.Target != nil {
		record.Target = &TargetRecord{Value: c.Target.Value, Type: string(c.Target.Kind)}
	}
	if c.LastReset != nil {
		epoch := c.LastReset.Unix()
		record.LastReset = &epoch
	}
	return record
}

// ToEntity converts a class record back to its entity, re-attaching owner
// back-references on every transaction.
func (r ClassRecord) ToEntity() (*entity.BudgetClass, error) {
	classType, err := entity.ParseBudgetClassType(r.Type)
	if err != nil {
		return nil, err
	}

	var target *entity.BudgetTarget
	if r.Target != nil {
		kind, err := entity.ParseTargetKind(r.Target.Type)
		if err != nil {
			return nil, err
		}
		target, err = entity.NewBudgetTarget(r.Target.Value, kind)
		if err != nil {
			return nil, err
		}
	}

	class := &entity.BudgetClass{
		ID:          r.ID,
		Name:        r.Name,
		Type:        classType,
		Description: r.Description,
		Keywords:    r.Keywords,
		History:     make([]*entity.Transaction, 0, len(r.History)),
		Target:      target,
	}
	if r.LastReset != nil {
		ts := time.Unix(*r.LastReset, 0)
		class.LastReset = &ts
	}

	for _, tr := range r.History {
		t := tr.ToEntity()
		t.OwnerClassID = class.ID
		class.History = append(class.History, t)
	}
	return class, nil
}
