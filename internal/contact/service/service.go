// Package service implements the contact submission pipeline: rate-limit
// gate, honeypot, bot verification, sanitization, validation, email dispatch
// and post-dispatch rate accounting. Each stage either proceeds or returns a
// terminal error; nothing is retried.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vantix_site_backend/internal/contact/transport"
	"vantix_site_backend/internal/email"
	"vantix_site_backend/internal/ratelimit"
	"vantix_site_backend/internal/turnstile"
	"vantix_site_backend/platform/apperr"
	"vantix_site_backend/platform/config"
	"vantix_site_backend/platform/logger"
	"vantix_site_backend/platform/sanitize"
	"vantix_site_backend/platform/validator"
)

// Field length ceilings applied before sanitization.
const (
	maxNameLen    = 120
	maxEmailLen   = 254
	maxCompanyLen = 200
	maxServiceLen = 50
	maxMessageLen = 5000
)

const msgNotConfigured = "contact form email delivery is not configured"

// Service orchestrates contact submissions.
type Service struct {
	cfg      config.EmailConfig
	sender   email.Sender
	verifier *turnstile.Verifier
	limiter  *ratelimit.Limiter
	val      *validator.Validator
	log      *logger.Logger
	now      func() time.Time
}

// New creates the contact service. sender may be nil when email delivery is
// unconfigured; submissions then fail with a configuration error instead of
// failing at boot.
func New(cfg config.EmailConfig, sender email.Sender, verifier *turnstile.Verifier, limiter *ratelimit.Limiter, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		cfg:      cfg,
		sender:   sender,
		verifier: verifier,
		limiter:  limiter,
		val:      val,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Gate runs the stages that precede body parsing: the configuration precheck
// and the counter-store rate limit. The configuration check comes first so a
// missing mail API key surfaces before any external call is attempted.
func (s *Service) Gate(ctx context.Context, clientIP string) error {
	if s.sender == nil {
		return apperr.Internal(msgNotConfigured)
	}

	decision := s.limiter.Check(ctx, clientIP)
	if !decision.Allowed {
		s.log.RateLimitExceeded(clientIP, decision.Reason)
		return apperr.RateLimited(decision.Reason)
	}
	return nil
}

// sanitizedSubmission carries the clamped, sanitized field values.
// Message length is counted in runes, matching the clamp.
type sanitizedSubmission struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Company string
	Service string `validate:"required"`
	Message string `validate:"required,min=20"`
}

// Submit runs the post-parse pipeline for one submission.
func (s *Service) Submit(ctx context.Context, req transport.SubmissionRequest, clientIP string) (transport.SubmissionResponse, error) {
	// Bots that fill every field are deflected with a fake success so the
	// honeypot stays undetectable.
	if strings.TrimSpace(req.Website) != "" {
		s.log.Warn("honeypot_triggered", "client_ip", clientIP)
		return transport.SubmissionResponse{OK: true}, nil
	}

	if err := s.verifier.Verify(ctx, req.BotToken, clientIP); err != nil {
		s.log.BotRejected(clientIP, err.Error())
		return transport.SubmissionResponse{}, err
	}

	s.scanForSuspiciousContent(req, clientIP)

	sub := sanitizeSubmission(req)

	if fields := s.validate(sub); len(fields) > 0 {
		return transport.SubmissionResponse{}, apperr.Validation("validation failed").WithDetails(fields)
	}

	msg := s.composeEmail(sub)
	if err := s.sender.SendContactEmail(ctx, msg); err != nil {
		if perr, ok := err.(*email.ProviderError); ok {
			s.log.EmailDispatchFailed("resend", perr.Status, perr)
			return transport.SubmissionResponse{}, apperr.Wrap(apperr.KindUpstream, "email provider rejected the message", perr)
		}
		s.log.EmailDispatchFailed("resend", 0, err)
		return transport.SubmissionResponse{}, apperr.Wrap(apperr.KindInternal, "failed to send message", err)
	}

	// Only confirmed dispatches count against the rate limit; failures are
	// free retries.
	s.limiter.Record(ctx, clientIP)

	return transport.SubmissionResponse{OK: true}, nil
}

// scanForSuspiciousContent inspects the raw, pre-sanitization values and
// writes a security log entry when anything matches. It never changes the
// response.
func (s *Service) scanForSuspiciousContent(req transport.SubmissionRequest, clientIP string) {
	flags := map[string]bool{
		"name":    sanitize.LooksSuspicious(req.Name),
		"email":   sanitize.LooksSuspicious(req.Email),
		"company": sanitize.LooksSuspicious(req.Company),
		"service": sanitize.LooksSuspicious(req.Service),
		"message": sanitize.LooksSuspicious(req.Message),
	}
	for _, flagged := range flags {
		if flagged {
			s.log.SecurityEvent(clientIP, flags)
			return
		}
	}
}

func sanitizeSubmission(req transport.SubmissionRequest) sanitizedSubmission {
	return sanitizedSubmission{
		Name:    sanitize.Sanitize(sanitize.Clamp(req.Name, maxNameLen)),
		Email:   sanitize.Sanitize(sanitize.Clamp(req.Email, maxEmailLen)),
		Company: sanitize.Sanitize(sanitize.Clamp(req.Company, maxCompanyLen)),
		Service: sanitize.Sanitize(sanitize.Clamp(req.Service, maxServiceLen)),
		Message: sanitize.Sanitize(sanitize.Clamp(req.Message, maxMessageLen)),
	}
}

func (s *Service) composeEmail(sub sanitizedSubmission) email.ContactEmail {
	company := sub.Company
	if company == "" {
		company = "-"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Name: %s\n", sub.Name)
	fmt.Fprintf(&body, "Email: %s\n", sub.Email)
	fmt.Fprintf(&body, "Company: %s\n", company)
	fmt.Fprintf(&body, "Service: %s\n", sub.Service)
	fmt.Fprintf(&body, "\nMessage:\n%s\n", sub.Message)
	fmt.Fprintf(&body, "\nSubmitted: %s\n", s.now().UTC().Format(time.RFC1123))

	return email.ContactEmail{
		From:    s.cfg.GetContactFromAddress(),
		To:      s.cfg.GetContactToAddress(),
		Subject: fmt.Sprintf("New contact form submission from %s (%s)", sub.Name, sub.Service),
		Text:    body.String(),
		ReplyTo: sub.Email,
	}
}
