// Package persistence contains the storage-backed adapter implementations.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/entity"
	"github.com/snowbudget/backend/internal/integration/persistence/model"
)

// fsClassStore keeps one JSON file per budget class inside a period-keyed
// directory under the save root, mirrored into the backup root.
type fsClassStore struct {
	saveRoot   string
	backupRoot string
}

// NewClassStore creates a filesystem-backed class store rooted at the budget's
// save and backup locations.
func NewClassStore(saveRoot, backupRoot string) adapter.ClassStore {
	return &fsClassStore{saveRoot: saveRoot, backupRoot: backupRoot}
}

// Save writes the class's JSON record into the period bucket, creating the
// bucket directory if needed.
func (s *fsClassStore) Save(periodKey string, class *entity.BudgetClass) error {
	return writeClassFile(filepath.Join(s.saveRoot, periodKey), class)
}

// Load reads one class record from a period bucket.
func (s *fsClassStore) Load(periodKey, fileName string) (*entity.BudgetClass, error) {
	path := filepath.Join(s.saveRoot, periodKey, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file %s: %w", path, err)
	}

	var record model.ClassRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode class file %s: %w", path, err)
	}
	return record.ToEntity()
}

// List enumerates class file names in a period bucket. A bucket that does not
// exist yet yields an empty list.
func (s *fsClassStore) List(periodKey string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.saveRoot, periodKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list period bucket %s: %w", periodKey, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Exists reports whether a class file is present in a period bucket.
func (s *fsClassStore) Exists(periodKey, fileName string) bool {
	_, err := os.Stat(filepath.Join(s.saveRoot, periodKey, fileName))
	return err == nil
}

// Delete removes a class file from a period bucket.
func (s *fsClassStore) Delete(periodKey, fileName string) error {
	path := filepath.Join(s.saveRoot, periodKey, fileName)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete class file %s: %w", path, err)
	}
	return nil
}

// Backup mirrors a class into the backup tree under the same period key.
func (s *fsClassStore) Backup(periodKey string, class *entity.BudgetClass) error {
	return writeClassFile(filepath.Join(s.backupRoot, periodKey), class)
}

// BackupRaw copies a file byte for byte into the backup tree root.
func (s *fsClassStore) BackupRaw(srcPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", srcPath, err)
	}
	if err := os.MkdirAll(s.backupRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create backup root: %w", err)
	}

	dst := filepath.Join(s.backupRoot, filepath.Base(srcPath))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup copy %s: %w", dst, err)
	}
	return nil
}

func writeClassFile(dir string, class *entity.BudgetClass) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create period bucket %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(model.ClassFromEntity(class), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode class %s: %w", class.Name, err)
	}

	path := filepath.Join(dir, class.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write class file %s: %w", path, err)
	}
	return nil
}
