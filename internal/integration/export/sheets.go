// Package export writes the budget's class listing into a Google spreadsheet.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/snowbudget/backend/internal/application/adapter"
	"github.com/snowbudget/backend/internal/domain/entity"
)

// SheetsExporter implements the adapter.SpreadsheetExporter interface on the
// Google Sheets API. Each export rewrites one worksheet with every class and
// its transaction history.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter creates a sheets exporter for the given spreadsheet.
func NewSheetsExporter(svc *gsheet.Service, spreadsheetID, sheetName string) *SheetsExporter {
	if sheetName == "" {
		sheetName = "Budget"
	}
	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

// NewSheetsExporterFromEnv creates a sheets exporter using service account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsExporterFromEnv(ctx context.Context, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewSheetsExporter(svc, spreadsheetID, sheetName), nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	var credentialsJSON []byte

	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		credentialsJSON = []byte(inline)
	} else {
		file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
		if file == "" {
			file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
		if file == "" {
			return nil, errors.New("missing service account credentials")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Export writes all classes and their transactions to the spreadsheet and
// returns the written range as a reference.
func (e *SheetsExporter) Export(ctx context.Context, budgetName string, classes []*entity.BudgetClass) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rows := [][]any{
		{budgetName},
		{"Class", "Type", "Transaction", "Vendor", "Date", "Price", "Class Total"},
	}
	for _, class := range classes {
		total := decimal.Zero
		for _, t := range class.History {
			total = total.Add(decimal.NewFromFloat(t.Price))
		}
		rows = append(rows, []any{class.Name, string(class.Type), "", "", "", "", total.StringFixed(2)})
		for _, t := range class.SortedDescending() {
			rows = append(rows, []any{
				"", "", t.Description, t.Vendor, t.DateString(),
				decimal.NewFromFloat(t.Price).StringFixed(2), "",
			})
		}
	}

	clearRange := fmt.Sprintf("%s!A:G", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("failed to clear sheet %s: %w", e.sheetName, err)
	}

	writeRange := fmt.Sprintf("%s!A1", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("failed to write sheet %s: %w", e.sheetName, err)
	}

	return fmt.Sprintf("%s!A1:G%d", e.sheetName, len(rows)), nil
}

// Ensure interface conformance.
var _ adapter.SpreadsheetExporter = (*SheetsExporter)(nil)
