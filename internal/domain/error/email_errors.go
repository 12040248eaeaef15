// Package error defines domain-specific errors for the budget ledger.
package error

import "errors"

// Email domain errors.
var (
	// ErrEmailSendFailed is returned when a notification email fails to be sent.
	ErrEmailSendFailed = errors.New("failed to send email")

	// ErrRecipientNotFound is returned when the user to notify has no email address.
	ErrRecipientNotFound = errors.New("notification recipient not found")
)
