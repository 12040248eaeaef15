// Package renewer runs the background cycle maintenance loop: it reloads the
// budget periodically so resets fire even when no requests arrive, records
// reset events, and reminds users shortly before the next reset.
package renewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/application/usecase/budget"
)

// LedgerFactory builds a fresh ledger as of the given instant.
type LedgerFactory func(at time.Time) (*budget.Ledger, error)

// Renewer is the background cycle loop.
type Renewer struct {
	newLedger       LedgerFactory
	audit           adapter.ResetAuditRepository
	users           adapter.UserRepository
	sender          adapter.EmailSender
	tickInterval    time.Duration
	notifyThreshold time.Duration

	// lastReminder is the anchor users were last reminded about, so each
	// upcoming reset is announced at most once.
	lastReminder time.Time
}

// Config holds the renewer's timing configuration.
type Config struct {
	TickInterval    time.Duration
	NotifyThreshold time.Duration
}

// NewRenewer creates a new renewer instance. The audit repository and email
// sender are optional.
func NewRenewer(
	newLedger LedgerFactory,
	audit adapter.ResetAuditRepository,
	users adapter.UserRepository,
	sender adapter.EmailSender,
	cfg Config,
) *Renewer {
	return &Renewer{
		newLedger:       newLedger,
		audit:           audit,
		users:           users,
		sender:          sender,
		tickInterval:    cfg.TickInterval,
		notifyThreshold: cfg.NotifyThreshold,
	}
}

// Start begins the renewer loop. It blocks until the context is cancelled.
func (r *Renewer) Start(ctx context.Context) {
	slog.Info("Cycle renewer started",
		"tick_interval", r.tickInterval,
		"notify_threshold", r.notifyThreshold,
	)

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Cycle renewer shutting down")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick reloads the budget once, applying any pending resets.
func (r *Renewer) tick(ctx context.Context) {
	now := time.Now()
	ledger, err := r.newLedger(now)
	if err != nil {
		slog.Error("Cycle renewer failed to load the budget", "error", err)
		return
	}

	if ids := ledger.ResetClassIDs(); len(ids) > 0 {
		slog.Info("Cycle renewer applied resets", "period", ledger.PeriodKey(), "classes", len(ids))
		r.recordResets(ctx, ledger.PeriodKey(), ids)
	}

	r.maybeRemind(ctx, ledger, now)
}

// recordResets writes the reset audit trail, best-effort.
func (r *Renewer) recordResets(ctx context.Context, periodKey string, classIDs []string) {
	if r.audit == nil {
		return
	}
	event := &adapter.ResetEvent{
		ID:               uuid.New(),
		PeriodKey:        periodKey,
		AffectedClassIDs: classIDs,
		OccurredAt:       time.Now().UTC(),
	}
	if err := r.audit.Record(ctx, event); err != nil {
		slog.Warn("Failed to record reset event", "period", periodKey, "error", err)
	}
}

// maybeRemind emails every user once when the next reset is closer than the
// notify threshold.
func (r *Renewer) maybeRemind(ctx context.Context, ledger *budget.Ledger, now time.Time) {
	if r.sender == nil || r.notifyThreshold <= 0 {
		return
	}

	remaining := ledger.TimeToNextReset()
	if remaining > r.notifyThreshold {
		return
	}

	anchor := now.Add(remaining).Truncate(24 * time.Hour)
	if anchor.Equal(r.lastReminder) {
		return
	}
	r.lastReminder = anchor

	users, err := r.users.FindAll(ctx)
	if err != nil {
		slog.Warn("Reset reminder skipped, user listing failed", "error", err)
		return
	}

	message := fmt.Sprintf("The %q budget resets in about %s.",
		ledger.Spec().Name, remaining.Round(time.Hour))
	for _, user := range users {
		if user.Email == "" {
			continue
		}
		if err := r.sender.Send(ctx, adapter.SendEmailInput{
			To:      user.Email,
			Subject: "sb reset reminder",
			Text:    message,
		}); err != nil {
			slog.Warn("Reset reminder delivery failed", "to", user.Email, "error", err)
		}
	}
}
