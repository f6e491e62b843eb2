// Package email provides outbound email delivery for contact submissions.
// Delivery goes through the Resend HTTP API by default, or a tenant SMTP
// relay when one is configured.
package email

import (
	"context"
	"errors"
	"fmt"

	"vantix_site_backend/platform/config"
)

// ErrNotConfigured signals that no delivery transport is available. The
// contact service maps it to a configuration error before any external
// call is attempted.
var ErrNotConfigured = errors.New("email delivery is not configured")

// ContactEmail is the composed, write-once payload handed to the provider.
// It is never persisted.
type ContactEmail struct {
	From    string
	To      string
	Subject string
	Text    string
	ReplyTo string
}

// Sender delivers contact emails.
type Sender interface {
	SendContactEmail(ctx context.Context, msg ContactEmail) error
}

// ProviderError is a non-2xx answer from the mail provider. Body is
// truncated so diagnostics stay bounded.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mail provider rejected the message: status %d", e.Status)
}

// maxProviderBody bounds how much of a provider error body is retained.
const maxProviderBody = 2000

func truncateBody(body []byte) string {
	if len(body) > maxProviderBody {
		return string(body[:maxProviderBody])
	}
	return string(body)
}

// NoopSender swallows all sends. Used when email is explicitly disabled
// in development.
type NoopSender struct{}

func (NoopSender) SendContactEmail(context.Context, ContactEmail) error { return nil }

// NewSender picks the delivery transport from configuration: an SMTP relay
// when SMTP_HOST is set, otherwise the Resend API when a key is present.
// With neither configured it returns ErrNotConfigured; the caller decides
// whether that is fatal (it is not at boot, it is per request).
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	if cfg.GetSMTPHost() != "" {
		return NewSMTPSender(cfg), nil
	}
	if cfg.GetResendAPIKey() != "" {
		return NewResendSender(cfg), nil
	}
	return nil, ErrNotConfigured
}
