package adapter

import (
	"context"

	"github.com/snowbudget/backend/internal/domain/entity"
)

// SpreadsheetExporter defines the interface for the export collaborator: it
// consumes the full class listing and produces a spreadsheet view of it.
type SpreadsheetExporter interface {
	// Export writes all classes and their transactions to the spreadsheet and
	// returns a reference (URL or identifier) to the produced sheet.
	Export(ctx context.Context, budgetName string, classes []*entity.BudgetClass) (string, error)
}
