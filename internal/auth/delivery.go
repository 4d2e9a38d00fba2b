package auth

import (
	"context"
	"fmt"

	"tavola/internal/i18n"
)

// Mailer is the outgoing-mail collaborator (satisfied by email.Sender).
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// DeliveryChannel carries raw recovery secrets to the account owner.
// Production wires it to email; everything else attaches the secret to the
// API response so tests and demos can observe it. Handlers never branch on
// the environment themselves.
type DeliveryChannel interface {
	DeliverResetToken(ctx context.Context, user *User, token, locale string) (map[string]string, error)
	DeliverVerificationCode(ctx context.Context, user *User, code, locale string) (map[string]string, error)
}

// MailDelivery sends recovery secrets by email and exposes nothing in the
// response.
type MailDelivery struct {
	Mailer  Mailer
	BaseURL string
}

func (d *MailDelivery) DeliverResetToken(ctx context.Context, user *User, token, locale string) (map[string]string, error) {
	link := fmt.Sprintf("%s/reset-password?token=%s", d.BaseURL, token)
	content := i18n.PasswordResetEmail(locale, link, int(ResetTokenTTL.Hours()))
	return nil, d.Mailer.Send(ctx, user.Email, content.Subject, content.Text, content.HTML)
}

func (d *MailDelivery) DeliverVerificationCode(ctx context.Context, user *User, code, locale string) (map[string]string, error) {
	content := i18n.VerificationCodeEmail(locale, code, int(VerificationCodeTTL.Minutes()))
	return nil, d.Mailer.Send(ctx, user.Email, content.Subject, content.Text, content.HTML)
}

// ResponseDelivery returns the raw secret as extra response fields.
type ResponseDelivery struct{}

func (ResponseDelivery) DeliverResetToken(_ context.Context, _ *User, token, _ string) (map[string]string, error) {
	return map[string]string{"resetToken": token}, nil
}

func (ResponseDelivery) DeliverVerificationCode(_ context.Context, _ *User, code, _ string) (map[string]string, error) {
	return map[string]string{"verificationCode": code}, nil
}
