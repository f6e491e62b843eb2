package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vantix_site_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

func TestErrorBody_MapsDomainErrors(t *testing.T) {
	domainErr := apperr.RateLimited("too many submissions this minute")
	status, body := ErrorBody(domainErr)
	if status != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", status)
	}
	if body.OK || body.Error != "too many submissions this minute" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestErrorBody_CarriesValidationFields(t *testing.T) {
	fields := map[string]string{"email": "email is required"}
	domainErr := apperr.Validation("validation failed").WithDetails(fields)

	status, body := ErrorBody(domainErr)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if body.Fields["email"] != "email is required" {
		t.Errorf("expected field messages carried through, got %+v", body.Fields)
	}
}

func TestErrorBody_HidesUntypedErrors(t *testing.T) {
	status, body := ErrorBody(errors.New("pg: connection refused"))
	if status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if body.Error != "unexpected server error" {
		t.Errorf("expected generic message, got %q", body.Error)
	}
}

func TestHandleError_WritesResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if handled := HandleError(c, nil); handled {
		t.Fatal("expected nil error to be unhandled")
	}
	if handled := HandleError(c, apperr.BadRequest("bot verification failed")); !handled {
		t.Fatal("expected error to be handled")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.OK || body.Error != "bot verification failed" {
		t.Errorf("unexpected body %+v", body)
	}
}
