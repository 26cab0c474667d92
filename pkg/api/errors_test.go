package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "with param",
			err:  NewInvalidRequestError("query", "is required"),
			want: "invalid_request: is required (param: query)",
		},
		{
			name: "without param",
			err:  NewServerError("backend unreachable"),
			want: "server_error: backend unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		wantType ErrorType
	}{
		{"invalid request", NewInvalidRequestError("p", "m"), ErrorTypeInvalidRequest},
		{"not found", NewNotFoundError("m"), ErrorTypeNotFound},
		{"server error", NewServerError("m"), ErrorTypeServerError},
		{"model error", NewModelError("m"), ErrorTypeModelError},
		{"rate limited", NewRateLimitedError("m"), ErrorTypeRateLimited},
		{"auth failed", NewAuthFailedError("m"), ErrorTypeAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
		})
	}
}

func TestRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed rate limited", NewRateLimitedError("quota exceeded"), true},
		{"typed auth failed", NewAuthFailedError("key rejected"), true},
		{"typed server error", NewServerError("boom"), false},
		{"typed invalid request", NewInvalidRequestError("", "bad"), false},
		{"typed model error", NewModelError("blocked"), false},
		{"wrapped typed error", fmt.Errorf("calling backend: %w", NewRateLimitedError("quota")), true},
		{"untyped 429 literal", errors.New("backend returned 429"), true},
		{"untyped 403 literal", errors.New("status 403 from upstream"), true},
		{"untyped API key complaint", errors.New("API key not valid"), true},
		{"untyped unrelated", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetryableError(tt.err); got != tt.want {
				t.Errorf("RetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
