// Package error defines domain-specific errors for the budget ledger.
package error

import "errors"

// Budget domain errors.
var (
	// ErrNegativePrice is returned when a transaction is created with a negative price.
	ErrNegativePrice = errors.New("transaction price must not be negative")

	// ErrTransactionNotFound is returned when a transaction lookup finds nothing.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrTransactionNotInClass is returned when removing a transaction a class does not hold.
	ErrTransactionNotInClass = errors.New("transaction not present in class")

	// ErrClassNotFound is returned when a budget class lookup finds nothing.
	ErrClassNotFound = errors.New("budget class not found")

	// ErrClassNameExists is returned when a class name collides case-insensitively.
	ErrClassNameExists = errors.New("budget class name already exists")

	// ErrInvalidClassType is returned when the class type is neither expense nor income.
	ErrInvalidClassType = errors.New("invalid budget class type")

	// ErrNoMatches is returned when a search yields zero results.
	ErrNoMatches = errors.New("no matches found")

	// ErrInvalidTargetKind is returned when the target kind string is unknown.
	ErrInvalidTargetKind = errors.New("invalid budget target kind")

	// ErrTargetPercentOutOfRange is returned when a percent-of-income target is outside [0, 1].
	ErrTargetPercentOutOfRange = errors.New("percent-of-income target must be within [0, 1]")

	// ErrTargetNeedsIncome is returned when resolving a percent target without a total income.
	ErrTargetNeedsIncome = errors.New("percent-of-income target requires a total income")

	// ErrSavingsPercentOutOfRange is returned when a savings category percent is outside [0, 1].
	ErrSavingsPercentOutOfRange = errors.New("savings percent must be within [0, 1]")

	// ErrSavingsPercentExceeded is returned when savings percentages sum above 1.0.
	ErrSavingsPercentExceeded = errors.New("savings percentages must not sum above 1.0")

	// ErrInvalidResetDate is returned when a reset-date string cannot be parsed.
	ErrInvalidResetDate = errors.New("invalid reset date")

	// ErrInvalidBudgetConfig is returned when the budget configuration file is malformed.
	ErrInvalidBudgetConfig = errors.New("invalid budget configuration")
)

// BudgetErrorCode defines error codes for budget ledger errors.
// Format: BUD-XXYYYY where XX is the error family and YYYY the specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNegativePrice       BudgetErrorCode = "BUD-010001"
	ErrCodeInvalidClassType    BudgetErrorCode = "BUD-010002"
	ErrCodeInvalidTargetKind   BudgetErrorCode = "BUD-010003"
	ErrCodeTargetOutOfRange    BudgetErrorCode = "BUD-010004"
	ErrCodeTargetNeedsIncome   BudgetErrorCode = "BUD-010005"
	ErrCodeInvalidResetDate    BudgetErrorCode = "BUD-010006"
	ErrCodeInvalidBudgetConfig BudgetErrorCode = "BUD-010007"
	ErrCodeSavingsOutOfRange   BudgetErrorCode = "BUD-010008"

	// Not-found errors (02XXXX)
	ErrCodeClassNotFound       BudgetErrorCode = "BUD-020001"
	ErrCodeTransactionNotFound BudgetErrorCode = "BUD-020002"
	ErrCodeNoMatches           BudgetErrorCode = "BUD-020003"

	// Integrity errors (03XXXX)
	ErrCodeClassNameExists       BudgetErrorCode = "BUD-030001"
	ErrCodeTransactionNotInClass BudgetErrorCode = "BUD-030002"
)

// BudgetError represents a budget ledger error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
