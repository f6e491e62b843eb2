// Package contact provides the contact-submission bounded context module.
// It owns the request pipeline behind the marketing site's contact form.
package contact

import (
	"vantix_site_backend/internal/contact/handler"
	"vantix_site_backend/internal/contact/service"
	"vantix_site_backend/internal/email"
	apphttp "vantix_site_backend/internal/http"
	"vantix_site_backend/internal/ratelimit"
	"vantix_site_backend/internal/turnstile"
	"vantix_site_backend/platform/config"
	"vantix_site_backend/platform/logger"
	"vantix_site_backend/platform/validator"
)

// Module is the contact bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the contact module with all its
// dependencies. sender and limiter may be nil; the service degrades the way
// the pipeline specifies (per-request 500 and fail-open respectively).
func NewModule(cfg config.EmailConfig, sender email.Sender, verifier *turnstile.Verifier, limiter *ratelimit.Limiter, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(cfg, sender, verifier, limiter, val, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contact"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the contact routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.POST("/contact", ctx.BurstLimiter.RateLimit(), m.handler.Submit)
	ctx.API.OPTIONS("/contact", m.handler.Preflight)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
