package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mimart/storefront/pkg/api"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  *api.APIError
		want int
	}{
		{"invalid request", api.NewInvalidRequestError("query", "query is required"), http.StatusBadRequest},
		{"not found", api.NewNotFoundError("no such product"), http.StatusNotFound},
		{"rate limited", api.NewRateLimitedError("quota exhausted"), http.StatusTooManyRequests},
		{"server error", api.NewServerError("boom"), http.StatusInternalServerError},
		{"model error", api.NewModelError("response blocked"), http.StatusInternalServerError},
		{"auth failed", api.NewAuthFailedError("key revoked"), http.StatusInternalServerError},
		{"unknown type", &api.APIError{Type: "mystery"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromError(tt.err); got != tt.want {
				t.Errorf("HTTPStatusFromError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, api.NewInvalidRequestError("message", "message is required"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling body: %v", err)
	}
	if body.Error == nil || body.Error.Type != api.ErrorTypeInvalidRequest {
		t.Errorf("body = %+v, want wrapped invalid_request error", body)
	}
	if body.Error.Param != "message" {
		t.Errorf("param = %q, want message", body.Error.Param)
	}
}

func TestWriteErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("disk full"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshaling body: %v", err)
	}
	if body.Error == nil || body.Error.Type != api.ErrorTypeServerError {
		t.Errorf("body = %+v, want server_error", body)
	}
}

func TestWriteErrorPreservesAPIErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, api.NewRateLimitedError("quota exhausted"))

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}
