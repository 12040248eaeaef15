package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/integration/persistence/model"
)

// resetEventRepository implements the adapter.ResetAuditRepository interface.
type resetEventRepository struct {
	db *gorm.DB
}

// NewResetEventRepository creates a new reset audit repository instance.
func NewResetEventRepository(db *gorm.DB) adapter.ResetAuditRepository {
	return &resetEventRepository{
		db: db,
	}
}

// Record stores one reset event.
func (r *resetEventRepository) Record(ctx context.Context, event *adapter.ResetEvent) error {
	result := r.db.WithContext(ctx).Create(model.ResetEventFromRecord(event))
	return result.Error
}

// FindByPeriod retrieves the reset events recorded for a period key.
func (r *resetEventRepository) FindByPeriod(ctx context.Context, periodKey string) ([]*adapter.ResetEvent, error) {
	var eventModels []model.ResetEventModel
	result := r.db.WithContext(ctx).
		Where("period_key = ?", periodKey).
		Order("occurred_at asc").
		Find(&eventModels)
	if result.Error != nil {
		return nil, result.Error
	}

	events := make([]*adapter.ResetEvent, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToEvent()
	}
	return events, nil
}
