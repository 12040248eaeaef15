package budget

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/cycle"
	"github.com/snowbudget/backend/internal/domain/entity"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// Ledger is the aggregate root owning all budget classes for one budget:
// their persistence, search, and reset orchestration. A Ledger is built fresh
// per logical request; it is not safe for concurrent mutation.
type Ledger struct {
	spec  *Spec
	store adapter.ClassStore

	now       time.Time
	anchors   []time.Time
	resetDay  bool
	periodKey string

	classes       []*entity.BudgetClass
	resetClassIDs []string
}

// NewLedger loads a Ledger from the class store as of the given instant,
// running the reset/backup protocol:
//
//  1. Resolve the reset anchors and whether now is a reset day.
//  2. Walk the current period's bucket plus the previous day's bucket (a
//     migration aid for classes not yet carried forward), preferring files
//     already present in the current bucket.
//  3. On a reset day, reset every class whose last reset is not today's
//     occurrence and persist it into the current bucket immediately.
//  4. Best-effort: mirror all classes and the configuration file into the
//     backup tree. Backup failures are logged and swallowed.
func NewLedger(spec *Spec, store adapter.ClassStore, now time.Time) (*Ledger, error) {
	if now.IsZero() {
		now = time.Now()
	}

	anchors, err := cycle.ParseAnchors(spec.ResetDates, now)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		spec:      spec,
		store:     store,
		now:       now,
		anchors:   anchors,
		resetDay:  cycle.IsResetDay(anchors, now),
		periodKey: cycle.PeriodKey(cycle.PeriodAnchor(anchors, now), now),
	}

	if err := l.load(); err != nil {
		return nil, err
	}
	l.backupAll()
	return l, nil
}

// load walks the current and fallback period buckets and deserializes every
// class file, applying pending resets as it goes.
func (l *Ledger) load() error {
	prev := l.now.Add(-24 * time.Hour)
	prevKey := cycle.PeriodKey(cycle.PeriodAnchor(l.anchors, prev), prev)

	names, err := l.store.List(l.periodKey)
	if err != nil {
		return fmt.Errorf("failed to list period %s: %w", l.periodKey, err)
	}
	if prevKey != l.periodKey {
		fallback, err := l.store.List(prevKey)
		if err != nil {
			return fmt.Errorf("failed to list period %s: %w", prevKey, err)
		}
		for _, name := range fallback {
			if !contains(names, name) {
				names = append(names, name)
			}
		}
	}

	for _, name := range names {
		// The configuration backup lives alongside class files; skip it.
		if strings.Contains(strings.ToLower(name), "config") {
			continue
		}

		bucket := l.periodKey
		if !l.store.Exists(l.periodKey, name) {
			bucket = prevKey
		}
		class, err := l.store.Load(bucket, name)
		if err != nil {
			return fmt.Errorf("failed to load class file %s/%s: %w", bucket, name, err)
		}

		if l.resetDay && needsReset(class, l.now) {
			class.Reset(l.now)
			if err := l.store.Save(l.periodKey, class); err != nil {
				return fmt.Errorf("failed to persist reset class %q: %w", class.Name, err)
			}
			l.resetClassIDs = append(l.resetClassIDs, class.ID)
			slog.Info("Reset budget class for new cycle",
				"class", class.Name,
				"period", l.periodKey,
			)
		}
		l.classes = append(l.classes, class)
	}
	return nil
}

// needsReset gates resets to at most once per class per reset-date occurrence.
func needsReset(class *entity.BudgetClass, now time.Time) bool {
	if class.LastReset == nil {
		return true
	}
	lr := *class.LastReset
	return lr.Year() != now.Year() || lr.Month() != now.Month() || lr.Day() != now.Day()
}

// backupAll mirrors every loaded class and the configuration file into the
// backup tree. Advisory only: failures are logged, never raised.
func (l *Ledger) backupAll() {
	for _, class := range l.classes {
		if err := l.store.Backup(l.periodKey, class); err != nil {
			slog.Warn("Class backup failed", "class", class.Name, "error", err)
		}
	}
	if err := l.store.BackupRaw(l.spec.Path()); err != nil {
		slog.Warn("Configuration backup failed", "path", l.spec.Path(), "error", err)
	}
}

// Spec returns the budget configuration the ledger was built from.
func (l *Ledger) Spec() *Spec {
	return l.spec
}

// Anchors returns the resolved reset anchors, ascending.
func (l *Ledger) Anchors() []time.Time {
	return l.anchors
}

// IsResetDay reports whether the ledger's instant is a reset day.
func (l *Ledger) IsResetDay() bool {
	return l.resetDay
}

// PeriodKey returns the storage key of the current period.
func (l *Ledger) PeriodKey() string {
	return l.periodKey
}

// ResetClassIDs returns the IDs of classes reset while loading this ledger.
func (l *Ledger) ResetClassIDs() []string {
	return l.resetClassIDs
}

// AddClass adds a new budget class and persists it into the current period.
// It fails when the name collides case-insensitively with an existing class.
func (l *Ledger) AddClass(class *entity.BudgetClass) error {
	if err := l.checkNameCollision(class.Name, class.ID); err != nil {
		return err
	}
	l.classes = append(l.classes, class)
	if err := l.store.Save(l.periodKey, class); err != nil {
		return fmt.Errorf("failed to save class %q: %w", class.Name, err)
	}
	l.backup(l.periodKey, class)
	return nil
}

// AddTransaction records a transaction against a class. The period bucket is
// chosen from the transaction's own timestamp, which may differ from "now"
// for backdated entries: in that case the target period's file is loaded (or
// the class's shell is copied with an empty history) and the transaction is
// persisted there instead of into the in-memory class.
func (l *Ledger) AddTransaction(class *entity.BudgetClass, t *entity.Transaction) error {
	stored, err := l.GetClass(class.ID)
	if err != nil {
		return err
	}

	txKey := cycle.PeriodKey(cycle.PeriodAnchor(l.anchors, t.Timestamp), t.Timestamp)
	target := stored
	if txKey != l.periodKey {
		if l.store.Exists(txKey, stored.FileName()) {
			target, err = l.store.Load(txKey, stored.FileName())
			if err != nil {
				return fmt.Errorf("failed to load class file %s/%s: %w", txKey, stored.FileName(), err)
			}
		} else {
			target = stored.Copy()
			target.History = []*entity.Transaction{}
		}
	}

	target.Add(t)
	if err := l.store.Save(txKey, target); err != nil {
		return fmt.Errorf("failed to save class %q: %w", target.Name, err)
	}
	l.backup(txKey, target)
	return nil
}

// GetClass looks a class up by exact ID.
func (l *Ledger) GetClass(id string) (*entity.BudgetClass, error) {
	for _, class := range l.classes {
		if class.ID == id {
			return class, nil
		}
	}
	return nil, domainerror.NewBudgetError(
		domainerror.ErrCodeClassNotFound,
		"no budget class has the given ID",
		domainerror.ErrClassNotFound,
	)
}

// GetTransaction looks a transaction up by exact ID across all classes.
func (l *Ledger) GetTransaction(id string) (*entity.Transaction, error) {
	for _, class := range l.classes {
		for _, t := range class.History {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return nil, domainerror.NewBudgetError(
		domainerror.ErrCodeTransactionNotFound,
		"no transaction has the given ID",
		domainerror.ErrTransactionNotFound,
	)
}

// SearchClass returns all classes whose keywords match the query, ordered by
// name. Zero matches is a failure.
func (l *Ledger) SearchClass(query string) ([]*entity.BudgetClass, error) {
	var matches []*entity.BudgetClass
	for _, class := range l.All() {
		if class.Matches(query) {
			matches = append(matches, class)
		}
	}
	if len(matches) == 0 {
		return nil, noMatches(query)
	}
	return matches, nil
}

// SearchTransaction returns all transactions matching the query. Classes are
// visited in name order and each class's history most-recent first. Zero
// matches is a failure.
func (l *Ledger) SearchTransaction(query string) ([]*entity.Transaction, error) {
	var matches []*entity.Transaction
	for _, class := range l.All() {
		for _, t := range class.SortedDescending() {
			if t.Matches(query) {
				matches = append(matches, t)
			}
		}
	}
	if len(matches) == 0 {
		return nil, noMatches(query)
	}
	return matches, nil
}

// DeleteClass removes a class from memory and deletes its persisted file.
func (l *Ledger) DeleteClass(class *entity.BudgetClass) error {
	stored, err := l.GetClass(class.ID)
	if err != nil {
		return err
	}

	for i, held := range l.classes {
		if held.ID == stored.ID {
			l.classes = append(l.classes[:i], l.classes[i+1:]...)
			break
		}
	}

	bucket := l.fileBucket(stored.FileName())
	if err := l.store.Delete(bucket, stored.FileName()); err != nil {
		return fmt.Errorf("failed to delete class file %q: %w", stored.FileName(), err)
	}
	return nil
}

// DeleteTransaction resolves the transaction and its owning class by ID,
// removes it from the class, and re-persists the class.
func (l *Ledger) DeleteTransaction(t *entity.Transaction) error {
	stored, err := l.GetTransaction(t.ID)
	if err != nil {
		return err
	}
	owner, err := l.GetClass(stored.OwnerClassID)
	if err != nil {
		return err
	}
	if err := owner.Remove(stored); err != nil {
		return err
	}
	if err := l.store.Save(l.periodKey, owner); err != nil {
		return fmt.Errorf("failed to save class %q: %w", owner.Name, err)
	}
	l.backup(l.periodKey, owner)
	return nil
}

// UpdateClass replaces an existing class with a modified, ID-preserving copy.
// The new record is staged on disk before the old file is removed, so a
// failure mid-way never loses the class.
func (l *Ledger) UpdateClass(modified *entity.BudgetClass) error {
	old, err := l.GetClass(modified.ID)
	if err != nil {
		return err
	}
	if err := l.checkNameCollision(modified.Name, modified.ID); err != nil {
		return err
	}

	if err := l.store.Save(l.periodKey, modified); err != nil {
		return fmt.Errorf("failed to stage updated class %q: %w", modified.Name, err)
	}
	if old.FileName() != modified.FileName() {
		bucket := l.fileBucket(old.FileName())
		if err := l.store.Delete(bucket, old.FileName()); err != nil {
			return fmt.Errorf("failed to delete renamed class file %q: %w", old.FileName(), err)
		}
	}

	for i, held := range l.classes {
		if held.ID == modified.ID {
			l.classes[i] = modified
			break
		}
	}
	l.backup(l.periodKey, modified)
	return nil
}

// All returns every class sorted by case-insensitive name.
func (l *Ledger) All() []*entity.BudgetClass {
	sorted := make([]*entity.BudgetClass, len(l.classes))
	copy(sorted, l.classes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}

// TimeToNextReset returns the duration until the nearest future reset anchor.
func (l *Ledger) TimeToNextReset() time.Duration {
	return cycle.TimeToNextReset(l.anchors, l.now)
}

// ExportRecord is the nested bulk-export snapshot of a whole budget: the
// configured name, the current period key, and every class with its full
// history in name order.
type ExportRecord struct {
	Name      string
	PeriodKey string
	Classes   []*entity.BudgetClass
}

// ExportRecord builds the bulk-export snapshot of the ledger.
func (l *Ledger) ExportRecord() ExportRecord {
	return ExportRecord{
		Name:      l.spec.Name,
		PeriodKey: l.periodKey,
		Classes:   l.All(),
	}
}

// checkNameCollision rejects a name that collides case-insensitively with a
// different class.
func (l *Ledger) checkNameCollision(name, selfID string) error {
	for _, class := range l.classes {
		if class.ID != selfID && strings.EqualFold(class.Name, name) {
			return domainerror.NewBudgetError(
				domainerror.ErrCodeClassNameExists,
				fmt.Sprintf("a budget class named %q already exists", class.Name),
				domainerror.ErrClassNameExists,
			)
		}
	}
	return nil
}

// fileBucket locates the period bucket a class file currently lives in,
// preferring the current period over the previous-day fallback.
func (l *Ledger) fileBucket(fileName string) string {
	if l.store.Exists(l.periodKey, fileName) {
		return l.periodKey
	}
	prev := l.now.Add(-24 * time.Hour)
	prevKey := cycle.PeriodKey(cycle.PeriodAnchor(l.anchors, prev), prev)
	if l.store.Exists(prevKey, fileName) {
		return prevKey
	}
	return l.periodKey
}

// backup mirrors one class, logging and swallowing failures.
func (l *Ledger) backup(periodKey string, class *entity.BudgetClass) {
	if err := l.store.Backup(periodKey, class); err != nil {
		slog.Warn("Class backup failed", "class", class.Name, "error", err)
	}
}

func noMatches(query string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeNoMatches,
		fmt.Sprintf("nothing matched %q", query),
		domainerror.ErrNoMatches,
	)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
