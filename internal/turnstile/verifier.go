// Package turnstile validates client challenge tokens against the Cloudflare
// Turnstile verification API. Unlike the rate limiter this collaborator fails
// closed: a false rejection costs the visitor one retry, while a false accept
// admits a bot.
package turnstile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vantix_site_backend/platform/apperr"
)

const defaultEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

const (
	msgTokenRequired = "bot verification required"
	msgTokenRejected = "bot verification failed"
	msgUnavailable   = "unable to verify request, please try again"
)

// Verifier checks Turnstile tokens. An empty secret disables verification
// entirely for this deployment.
type Verifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithEndpoint overrides the verification endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(v *Verifier) { v.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) { v.client = client }
}

// New creates a Verifier with the given shared secret.
func New(secret string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:   secret,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// Verify checks the client-supplied token. It returns nil when verification
// passes or is disabled, apperr.BadRequest for a missing or rejected token,
// and apperr.Internal when the verification service cannot be reached.
// A missing token is rejected locally; no network call is made.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if !v.Enabled() {
		return nil
	}

	if strings.TrimSpace(token) == "" {
		return apperr.BadRequest(msgTokenRequired)
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, msgUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, msgUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return apperr.Wrap(apperr.KindInternal, msgUnavailable, err)
	}

	if !result.Success {
		return apperr.BadRequest(msgTokenRejected)
	}
	return nil
}
