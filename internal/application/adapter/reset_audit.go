package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResetEvent records one cycle-reset run: which period triggered it and which
// classes had their history cleared.
type ResetEvent struct {
	ID               uuid.UUID
	PeriodKey        string
	AffectedClassIDs []string
	OccurredAt       time.Time
}

// ResetAuditRepository persists the reset audit trail. Audit writes are
// advisory: callers log and swallow failures.
type ResetAuditRepository interface {
	// Record stores one reset event.
	Record(ctx context.Context, event *ResetEvent) error

	// FindByPeriod retrieves the reset events recorded for a period key.
	FindByPeriod(ctx context.Context, periodKey string) ([]*ResetEvent, error)
}
