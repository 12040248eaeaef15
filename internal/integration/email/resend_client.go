// Package email provides email sending functionality via Resend.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/snowbudget/backend/internal/application/adapter"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send sends a plain-text notification email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{input.To},
		Subject: input.Subject,
		Text:    input.Text,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("%w: %v", domainerror.ErrEmailSendFailed, err)
	}
	return nil
}

// MockEmailSender is a mock implementation for testing.
type MockEmailSender struct {
	SentEmails []adapter.SendEmailInput
	FailError  error
}

// NewMockEmailSender creates a new mock email sender.
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{
		SentEmails: make([]adapter.SendEmailInput, 0),
	}
}

// Send implements the adapter.EmailSender interface for testing.
func (m *MockEmailSender) Send(ctx context.Context, input adapter.SendEmailInput) error {
	if m.FailError != nil {
		return m.FailError
	}
	m.SentEmails = append(m.SentEmails, input)
	return nil
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = (*MockEmailSender)(nil)
)
