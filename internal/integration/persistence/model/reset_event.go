package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/snowbudget/backend/internal/application/adapter"
)

// ResetEventModel represents the reset_events audit table in the database.
type ResetEventModel struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PeriodKey        string         `gorm:"type:varchar(20);index;not null"`
	AffectedClassIDs pq.StringArray `gorm:"type:text[]"`
	OccurredAt       time.Time      `gorm:"not null"`
}

// TableName returns the table name for the ResetEventModel.
func (ResetEventModel) TableName() string {
	return "reset_events"
}

// ToEvent converts a ResetEventModel to its adapter record.
func (m *ResetEventModel) ToEvent() *adapter.ResetEvent {
	return &adapter.ResetEvent{
		ID:               m.ID,
		PeriodKey:        m.PeriodKey,
		AffectedClassIDs: []string(m.AffectedClassIDs),
		OccurredAt:       m.OccurredAt,
	}
}

// ResetEventFromRecord creates a ResetEventModel from an adapter record.
func ResetEventFromRecord(event *adapter.ResetEvent) *ResetEventModel {
	return &ResetEventModel{
		ID:               event.ID,
		PeriodKey:        event.PeriodKey,
		AffectedClassIDs: pq.StringArray(event.AffectedClassIDs),
		OccurredAt:       event.OccurredAt,
	}
}
