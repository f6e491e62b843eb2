package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vantix_site_backend/internal/contact/service"
	"vantix_site_backend/internal/contact/transport"
	"vantix_site_backend/internal/email"
	"vantix_site_backend/internal/ratelimit"
	"vantix_site_backend/internal/turnstile"
	"vantix_site_backend/platform/config"
	"vantix_site_backend/platform/logger"
	"vantix_site_backend/platform/validator"
)

type stubSender struct {
	calls int
	err   error
}

func (s *stubSender) SendContactEmail(context.Context, email.ContactEmail) error {
	s.calls++
	return s.err
}

type memStore struct {
	mu     sync.Mutex
	values map[string]int64
}

func (m *memStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memStore) Put(_ context.Context, key string, value int64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func newTestRouter(sender email.Sender, limiter *ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		EmailEnabled:       true,
		ContactToAddress:   "hello@vantix.dev",
		ContactFromAddress: "no-reply@vantix.dev",
	}
	log := logger.New("development")
	svc := service.New(cfg, sender, turnstile.New(""), limiter, validator.New(), log)
	h := New(svc)

	engine := gin.New()
	engine.POST("/api/contact", h.Submit)
	engine.OPTIONS("/api/contact", h.Preflight)
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, body string) (*httptest.ResponseRecorder, transport.SubmissionResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	var resp transport.SubmissionResponse
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("malformed response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

const validBody = `{
	"name": "Jane Doe",
	"email": "jane@example.com",
	"service": "ai-ml",
	"message": "I need help building an AI system for my startup."
}`

func TestSubmit_Success(t *testing.T) {
	sender := &stubSender{}
	engine := newTestRouter(sender, nil)

	w, resp := postJSON(t, engine, validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !resp.OK {
		t.Error("expected ok:true")
	}
	if sender.calls != 1 {
		t.Errorf("expected one dispatch, got %d", sender.calls)
	}
}

func TestSubmit_MalformedJSON(t *testing.T) {
	engine := newTestRouter(&stubSender{}, nil)

	w, resp := postJSON(t, engine, `{"name": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp.OK || resp.Error == "" {
		t.Errorf("expected ok:false with an error, got %+v", resp)
	}
}

func TestSubmit_ValidationFailureListsFields(t *testing.T) {
	engine := newTestRouter(&stubSender{}, nil)

	w, resp := postJSON(t, engine, `{"email": "jane@example.com", "message": "way too short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp.Fields["name"] == "" || resp.Fields["service"] == "" || resp.Fields["message"] == "" {
		t.Errorf("expected field errors for name, service and message, got %v", resp.Fields)
	}
}

func TestSubmit_RateLimited(t *testing.T) {
	store := &memStore{values: map[string]int64{}}
	log := logger.New("development")
	limiter := ratelimit.New(store, 3, 10, log)
	engine := newTestRouter(&stubSender{}, limiter)

	for i := 0; i < 3; i++ {
		if w, _ := postJSON(t, engine, validBody); w.Code != http.StatusOK {
			t.Fatalf("warm-up submission %d failed with %d", i, w.Code)
		}
	}

	w, resp := postJSON(t, engine, validBody)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if resp.OK || resp.Error == "" {
		t.Errorf("expected ok:false with a reason, got %+v", resp)
	}
}

func TestSubmit_MissingMailConfigurationIs500(t *testing.T) {
	engine := newTestRouter(nil, nil)

	w, resp := postJSON(t, engine, validBody)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(resp.Error, "configur") {
		t.Errorf("expected error mentioning configuration, got %q", resp.Error)
	}
}

func TestSubmit_ProviderFailureIs502WithStatus(t *testing.T) {
	sender := &stubSender{err: &email.ProviderError{
		Status: http.StatusServiceUnavailable,
		Body:   strings.Repeat("e", 2000),
	}}
	engine := newTestRouter(sender, nil)

	w, resp := postJSON(t, engine, validBody)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if resp.ProviderStatus != http.StatusServiceUnavailable {
		t.Errorf("expected providerStatus 503, got %d", resp.ProviderStatus)
	}
	if len(resp.ProviderBody) > 2000 {
		t.Errorf("expected provider body capped at 2000, got %d", len(resp.ProviderBody))
	}
}

func TestSubmit_HoneypotAlwaysSucceeds(t *testing.T) {
	sender := &stubSender{}
	engine := newTestRouter(sender, nil)

	w, resp := postJSON(t, engine, `{"website": "https://spam.example", "name": "", "message": "x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for honeypot submission, got %d", w.Code)
	}
	if !resp.OK {
		t.Error("expected ok:true")
	}
	if sender.calls != 0 {
		t.Errorf("expected no dispatch, got %d", sender.calls)
	}
}

func TestPreflight(t *testing.T) {
	engine := newTestRouter(&stubSender{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}
