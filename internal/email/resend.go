package email

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"vantix_site_backend/platform/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender delivers mail through the Resend transactional API.
type ResendSender struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// NewResendSender creates a sender using the configured API key.
func NewResendSender(cfg config.EmailConfig) *ResendSender {
	return &ResendSender{
		apiKey:   cfg.GetResendAPIKey(),
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the API endpoint. Used by tests.
func (r *ResendSender) WithEndpoint(endpoint string) *ResendSender {
	r.endpoint = endpoint
	return r
}

func (r *ResendSender) SendContactEmail(ctx context.Context, msg ContactEmail) error {
	payload := resendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody+1))
		return &ProviderError{Status: resp.StatusCode, Body: truncateBody(data)}
	}

	return nil
}
