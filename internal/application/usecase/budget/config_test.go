package budget

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "budget.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadSpec(t *testing.T) {
	t.Run("loads a valid configuration", func(t *testing.T) {
		path := writeConfig(t, `{
			"name": "household",
			"save_location": "/tmp/sb/save",
			"backup_location": "/tmp/sb/backup",
			"reset_dates": ["1-1", "7-1"],
			"surplus_savings": [
				{"category": "emergency", "percent": 0.5},
				{"category": "travel", "percent": 0.25}
			]
		}`)

		spec, err := LoadSpec(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if spec.Name != "household" {
			t.Errorf("expected name household, got %q", spec.Name)
		}
		if len(spec.Savings) != 2 || spec.Savings[0].Name != "emergency" {
			t.Errorf("unexpected savings: %+v", spec.Savings)
		}
		if spec.Path() != path {
			t.Errorf("expected Path() %q, got %q", path, spec.Path())
		}
	})

	t.Run("fails when the file is missing", func(t *testing.T) {
		if _, err := LoadSpec(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})

	t.Run("fails on invalid JSON", func(t *testing.T) {
		path := writeConfig(t, `{"name": `)
		if _, err := LoadSpec(path); !errors.Is(err, domainerror.ErrInvalidBudgetConfig) {
			t.Errorf("expected ErrInvalidBudgetConfig, got %v", err)
		}
	})

	t.Run("fails on missing required fields", func(t *testing.T) {
		cases := map[string]string{
			"name":            `{"save_location": "s", "backup_location": "b", "reset_dates": ["1-1"], "surplus_savings": []}`,
			"save_location":   `{"name": "n", "backup_location": "b", "reset_dates": ["1-1"], "surplus_savings": []}`,
			"backup_location": `{"name": "n", "save_location": "s", "reset_dates": ["1-1"], "surplus_savings": []}`,
			"reset_dates":     `{"name": "n", "save_location": "s", "backup_location": "b", "surplus_savings": []}`,
			"surplus_savings": `{"name": "n", "save_location": "s", "backup_location": "b", "reset_dates": ["1-1"]}`,
		}
		for field, content := range cases {
			path := writeConfig(t, content)
			if _, err := LoadSpec(path); !errors.Is(err, domainerror.ErrInvalidBudgetConfig) {
				t.Errorf("missing %s: expected ErrInvalidBudgetConfig, got %v", field, err)
			}
		}
	})

	t.Run("fails on an out-of-range reset date", func(t *testing.T) {
		path := writeConfig(t, `{
			"name": "n", "save_location": "s", "backup_location": "b",
			"reset_dates": ["13-1"], "surplus_savings": []
		}`)
		if _, err := LoadSpec(path); !errors.Is(err, domainerror.ErrInvalidResetDate) {
			t.Errorf("expected ErrInvalidResetDate, got %v", err)
		}
	})

	t.Run("fails when savings percentages sum above one", func(t *testing.T) {
		path := writeConfig(t, `{
			"name": "n", "save_location": "s", "backup_location": "b",
			"reset_dates": ["1-1"],
			"surplus_savings": [
				{"category": "a", "percent": 0.7},
				{"category": "b", "percent": 0.7}
			]
		}`)
		if _, err := LoadSpec(path); !errors.Is(err, domainerror.ErrSavingsPercentExceeded) {
			t.Errorf("expected ErrSavingsPercentExceeded, got %v", err)
		}
	})

	t.Run("fails on a savings entry missing its percent", func(t *testing.T) {
		path := writeConfig(t, `{
			"name": "n", "save_location": "s", "backup_location": "b",
			"reset_dates": ["1-1"],
			"surplus_savings": [{"category": "a"}]
		}`)
		if _, err := LoadSpec(path); !errors.Is(err, domainerror.ErrInvalidBudgetConfig) {
			t.Errorf("expected ErrInvalidBudgetConfig, got %v", err)
		}
	})
}
