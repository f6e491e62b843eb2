package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vantix_site_backend/platform/config"
)

func testEmailConfig(apiKey string) config.EmailConfig {
	return &config.Config{
		EmailEnabled: true,
		ResendAPIKey: apiKey,
		SMTPPort:     587,
	}
}

func TestResendSender_SendsExpectedPayload(t *testing.T) {
	var captured resendEmailRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer server.Close()

	sender := NewResendSender(testEmailConfig("re_test_key")).WithEndpoint(server.URL)
	err := sender.SendContactEmail(context.Background(), ContactEmail{
		From:    "no-reply@vantix.dev",
		To:      "hello@vantix.dev",
		Subject: "New contact form submission from Jane Doe (ai-ml)",
		Text:    "Name: Jane Doe",
		ReplyTo: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if authHeader != "Bearer re_test_key" {
		t.Errorf("expected bearer auth, got %q", authHeader)
	}
	if len(captured.To) != 1 || captured.To[0] != "hello@vantix.dev" {
		t.Errorf("unexpected recipients: %v", captured.To)
	}
	if captured.ReplyTo != "jane@example.com" {
		t.Errorf("expected reply_to set, got %q", captured.ReplyTo)
	}
}

func TestResendSender_NonSuccessBecomesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(strings.Repeat("x", 5000)))
	}))
	defer server.Close()

	sender := NewResendSender(testEmailConfig("re_test_key")).WithEndpoint(server.URL)
	err := sender.SendContactEmail(context.Background(), ContactEmail{To: "hello@vantix.dev"})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Status != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", perr.Status)
	}
	if len(perr.Body) > 2000 {
		t.Errorf("expected body truncated to 2000 chars, got %d", len(perr.Body))
	}
}

func TestNewSender_SelectsTransport(t *testing.T) {
	if _, err := NewSender(&config.Config{EmailEnabled: true}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured with no transport, got %v", err)
	}

	sender, err := NewSender(&config.Config{EmailEnabled: true, ResendAPIKey: "key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*ResendSender); !ok {
		t.Errorf("expected ResendSender, got %T", sender)
	}

	sender, err = NewSender(&config.Config{EmailEnabled: true, SMTPHost: "mail.example.com", SMTPPort: 587})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*SMTPSender); !ok {
		t.Errorf("expected SMTPSender, got %T", sender)
	}

	sender, err = NewSender(&config.Config{EmailEnabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(NoopSender); !ok {
		t.Errorf("expected NoopSender when email disabled, got %T", sender)
	}
}
