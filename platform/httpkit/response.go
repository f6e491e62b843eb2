// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"vantix_site_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format. Every error carries
// ok:false so browser clients can branch on a single field. The provider
// fields are populated only when an upstream provider rejected the operation.
type ErrorResponse struct {
	OK             bool              `json:"ok"`
	Error          string            `json:"error"`
	Fields         map[string]string `json:"fields,omitempty"`
	ProviderStatus int               `json:"providerStatus,omitempty"`
	ProviderBody   string            `json:"providerBody,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, fields map[string]string) {
	c.JSON(status, ErrorResponse{OK: false, Error: message, Fields: fields})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// ErrorBody maps a domain error to an HTTP status and response body without
// writing it, so handlers can decorate the body before sending.
// Typed *apperr.Error values map through their Kind; anything else becomes a
// generic 500, since untyped errors are unexpected by definition and their
// detail must not leak to the client.
func ErrorBody(err error) (int, ErrorResponse) {
	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		fields, _ := domainErr.Details.(map[string]string)
		return domainErr.HTTPStatus(), ErrorResponse{
			OK:     false,
			Error:  domainErr.Message,
			Fields: fields,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		OK:    false,
		Error: "unexpected server error",
	}
}

// HandleError maps domain errors to HTTP responses.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	status, body := ErrorBody(err)
	c.JSON(status, body)
	return true
}
