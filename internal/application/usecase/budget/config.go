// Package budget contains the budget ledger and its supporting use cases.
package budget

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/snowbudget/backend/internal/domain/cycle"
	"github.com/snowbudget/backend/internal/domain/entity"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// Spec is the validated budget configuration: where the ledger persists, when
// its cycles reset, and how surplus savings are split.
type Spec struct {
	Name           string
	SaveLocation   string
	BackupLocation string
	ResetDates     []string
	Savings        []entity.SavingsCategory

	path string
}

// Path returns the configuration file this spec was loaded from.
func (s *Spec) Path() string {
	return s.path
}

// specFile mirrors the configuration file's JSON shape. Pointer fields let
// missing keys be told apart from zero values.
type specFile struct {
	Name           *string         `json:"name"`
	SaveLocation   *string         `json:"save_location"`
	BackupLocation *string         `json:"backup_location"`
	ResetDates     []string        `json:"reset_dates"`
	SurplusSavings []savingsRecord `json:"surplus_savings"`
}

type savingsRecord struct {
	Category *string  `json:"category"`
	Percent  *float64 `json:"percent"`
}

// LoadSpec reads and validates the budget configuration file. Validation
// failures are fatal: no partially constructed spec is ever returned.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read budget configuration: %w", err)
	}

	var raw specFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, invalidConfig(fmt.Sprintf("budget configuration is not valid JSON: %v", err))
	}

	if raw.Name == nil {
		return nil, invalidConfig("missing 'name' string")
	}
	if raw.SaveLocation == nil {
		return nil, invalidConfig("missing 'save_location' path")
	}
	if raw.BackupLocation == nil {
		return nil, invalidConfig("missing 'backup_location' path")
	}
	if len(raw.ResetDates) == 0 {
		return nil, invalidConfig("missing or empty 'reset_dates' list")
	}
	if raw.SurplusSavings == nil {
		return nil, invalidConfig("missing 'surplus_savings' list")
	}

	// Reject out-of-range months/days up front; the ledger re-parses anchors
	// against its own "now" at construction.
	if _, err := cycle.ParseAnchors(raw.ResetDates, time.Now()); err != nil {
		return nil, err
	}

	savings := make([]entity.SavingsCategory, 0, len(raw.SurplusSavings))
	for _, sr := range raw.SurplusSavings {
		if sr.Category == nil || sr.Percent == nil {
			return nil, invalidConfig("each 'surplus_savings' entry must have a 'category' string and a 'percent' float")
		}
		sc, err := entity.NewSavingsCategory(*sr.Category, *sr.Percent)
		if err != nil {
			return nil, err
		}
		savings = append(savings, sc)
	}
	if err := entity.ValidateSavingsCategories(savings); err != nil {
		return nil, err
	}

	return &Spec{
		Name:           *raw.Name,
		SaveLocation:   *raw.SaveLocation,
		BackupLocation: *raw.BackupLocation,
		ResetDates:     raw.ResetDates,
		Savings:        savings,
		path:           path,
	}, nil
}

func invalidConfig(msg string) error {
	return domainerror.NewBudgetError(
		domainerror.ErrCodeInvalidBudgetConfig,
		msg,
		domainerror.ErrInvalidBudgetConfig,
	)
}
