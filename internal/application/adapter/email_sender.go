package adapter

import "context"

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Subject string
	Text    string
}

// EmailSender defines the interface for the notification collaborator. It is
// invoked with plain human-readable strings derived from operation results.
type EmailSender interface {
	// Send delivers a notification email.
	Send(ctx context.Context, input SendEmailInput) error
}
