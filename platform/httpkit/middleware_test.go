package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vantix_site_backend/platform/config"
	"vantix_site_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func newCORSEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{CORSOrigins: []string{"https://vantix.dev", "https://staging.vantix.dev"}}
	engine := gin.New()
	engine.Use(CORS(cfg))
	engine.POST("/api/contact", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func TestCORS_EchoesListedOrigin(t *testing.T) {
	engine := newCORSEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("Origin", "https://staging.vantix.dev")
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://staging.vantix.dev" {
		t.Errorf("expected listed origin echoed, got %q", got)
	}
}

func TestCORS_UnlistedOriginGetsDefault(t *testing.T) {
	engine := newCORSEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	engine.ServeHTTP(w, req)

	// The response is served, but carries the default origin: the browser
	// refuses to expose it to the unlisted script context.
	if w.Code != http.StatusOK {
		t.Fatalf("expected response not to be blocked, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://vantix.dev" {
		t.Errorf("expected default origin, got %q", got)
	}
}

func TestCORS_PreflightIs204WithoutBody(t *testing.T) {
	engine := newCORSEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://vantix.dev")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected empty preflight body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("expected allow-methods header on preflight")
	}
}

func TestRequestID_PropagatesToRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(RequestID())
	var fromCtx string
	engine.GET("/", func(c *gin.Context) {
		fromCtx, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	header := w.Header().Get("X-Request-ID")
	if header == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if fromCtx != header {
		t.Errorf("expected request context ID %q to match header, got %q", header, fromCtx)
	}
}

func TestIPRateLimiter_BlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.New("development"))
	engine := gin.New()
	engine.POST("/x", limiter.RateLimit(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("expected burst of 2 allowed, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request limited, got %v", codes)
	}
}
