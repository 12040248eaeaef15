// Package adapter defines interfaces that are implemented in the integration layer.
package adapter

import (
	"github.com/snowbudget/backend/internal/domain/entity"
)

// ClassStore persists budget classes as one record per class inside a
// period-keyed bucket, with a parallel best-effort backup tree.
type ClassStore interface {
	// Save writes a class into the given period bucket. A failure here is
	// fatal for the mutation that triggered it.
	Save(periodKey string, class *entity.BudgetClass) error

	// Load reads one class record from a period bucket by file name.
	Load(periodKey, fileName string) (*entity.BudgetClass, error)

	// List enumerates the class file names present in a period bucket.
	// A missing bucket yields an empty list, not an error.
	List(periodKey string) ([]string, error)

	// Exists reports whether a class file is present in a period bucket.
	Exists(periodKey, fileName string) bool

	// Delete removes a class file from a period bucket.
	Delete(periodKey, fileName string) error

	// Backup mirrors a class into the backup tree under the same period key.
	// Backups are advisory; callers swallow and log failures.
	Backup(periodKey string, class *entity.BudgetClass) error

	// BackupRaw copies an arbitrary file (the budget configuration) into the
	// backup tree root.
	BackupRaw(srcPath string) error
}
