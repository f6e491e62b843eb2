package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vantix_site_backend/internal/contact/service"
	"vantix_site_backend/internal/contact/transport"
	"vantix_site_backend/internal/email"
	"vantix_site_backend/platform/httpkit"
)

// Handler handles HTTP requests for contact submissions.
type Handler struct {
	svc *service.Service
}

const msgInvalidBody = "invalid request body"

// New creates a new contact handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Submit accepts a contact form submission.
// POST /api/contact
func (h *Handler) Submit(c *gin.Context) {
	clientIP := c.ClientIP()

	// The gate runs before the body is parsed: configuration precheck,
	// then the counter-store rate limit.
	if err := h.svc.Gate(c.Request.Context(), clientIP); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var req transport.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidBody, nil)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req, clientIP)
	if err != nil {
		h.renderError(c, err)
		return
	}

	httpkit.OK(c, result)
}

// Preflight answers CORS preflight requests. The CORS middleware normally
// intercepts OPTIONS before this runs; the route exists so the surface is
// explicit.
func (h *Handler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// renderError maps pipeline errors through httpkit and attaches the upstream
// provider status and body when the mail provider rejected the dispatch.
func (h *Handler) renderError(c *gin.Context, err error) {
	status, body := httpkit.ErrorBody(err)

	var providerErr *email.ProviderError
	if errors.As(err, &providerErr) {
		body.ProviderStatus = providerErr.Status
		body.ProviderBody = providerErr.Body
	}

	httpkit.JSON(c, status, body)
}
