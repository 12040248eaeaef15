package controller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snowbudget/backend/internal/application/adapter"
	domainerror "github.com/snowbudget/backend/internal/domain/error"
	"github.com/snowbudget/backend/internal/integration/entrypoint/dto"
)

// Notifier emails a request's outcome to the requesting user when the request
// carried a notify flag. Delivery is best-effort and never affects the
// response.
type Notifier struct {
	users  adapter.UserRepository
	sender adapter.EmailSender
}

// NewNotifier creates a new notifier instance.
func NewNotifier(users adapter.UserRepository, sender adapter.EmailSender) *Notifier {
	return &Notifier{
		users:  users,
		sender: sender,
	}
}

// Notify sends the response's message to the user's email address.
func (n *Notifier) Notify(ctx context.Context, username string, resp dto.Response) {
	if n == nil || n.sender == nil {
		return
	}

	user, err := n.users.FindByUsername(ctx, username)
	if err != nil {
		slog.Warn("Notification skipped, user lookup failed", "username", username, "error", err)
		return
	}
	if user.Email == "" {
		slog.Warn("Notification skipped", "username", username, "error", domainerror.ErrRecipientNotFound)
		return
	}

	subject := "sb"
	if resp.Success != nil {
		outcome := "failure"
		if *resp.Success {
			outcome = "success"
		}
		subject = fmt.Sprintf("sb [%s]", outcome)
	}

	message := resp.Message
	if message == "" {
		message = "Handled a request."
	}

	slog.Info("Notification requested", "to", user.Email, "message", message)
	if err := n.sender.Send(ctx, adapter.SendEmailInput{
		To:      user.Email,
		Subject: subject,
		Text:    message,
	}); err != nil {
		slog.Warn("Notification delivery failed", "to", user.Email, "error", err)
	}
}
