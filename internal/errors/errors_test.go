package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAuthError(t *testing.T) {
	err := NewAuthError("test auth error")

	expected := "authentication failed: test auth error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrAuthFailed) {
		t.Error("Expected AuthError to match ErrAuthFailed sentinel")
	}

	empty := NewAuthError("")
	if empty.Error() != "authentication failed: cookies may have expired" {
		t.Errorf("Error() = %s, want default message", empty.Error())
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("generate content", "https://example.com", cause)

	expected := "network error during generate content at https://example.com: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}

	wrapped := fmt.Errorf("send failed: %w", err)
	if !IsNetworkError(wrapped) {
		t.Error("Expected IsNetworkError to see through wrapping")
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test-endpoint", "test API error")

	expected := "API error [400] at test-endpoint: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "test-endpoint", "boom")
	if noStatus.Error() != "API error at test-endpoint: boom" {
		t.Errorf("Error() = %s, want status-less format", noStatus.Error())
	}

	err.WithBody("details")
	if err.Body != "details" {
		t.Errorf("Body = %s, want details", err.Body)
	}
}

func TestUsageLimitError(t *testing.T) {
	err := NewUsageLimitError("slow down")

	expected := "usage limit exceeded: slow down"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !IsQuotaError(err) {
		t.Error("Expected IsQuotaError to report true")
	}

	wrapped := fmt.Errorf("send failed: %w", err)
	if !IsQuotaError(wrapped) {
		t.Error("Expected IsQuotaError to see through wrapping")
	}

	if IsQuotaError(NewAPIError(500, "x", "y")) {
		t.Error("Expected APIError not to count as quota error")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("bad candidate list", "4")

	if err.Error() != "parse error: bad candidate list" {
		t.Errorf("Error() = %s", err.Error())
	}

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse sentinel")
	}
}

func TestFromErrorCode(t *testing.T) {
	tests := []struct {
		name  string
		code  ErrorCode
		check func(error) bool
	}{
		{"usage limit", ErrCodeUsageLimitExceeded, IsQuotaError},
		{"model inconsistent", ErrCodeModelInconsistent, func(err error) bool {
			var m *ModelError
			return errors.As(err, &m)
		}},
		{"model header invalid", ErrCodeModelHeaderInvalid, func(err error) bool {
			var m *ModelError
			return errors.As(err, &m)
		}},
		{"ip blocked", ErrCodeIPBlocked, func(err error) bool {
			var b *BlockedError
			return errors.As(err, &b)
		}},
		{"unknown", ErrorCode(9999), func(err error) bool {
			var a *APIError
			return errors.As(err, &a)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromErrorCode(tt.code, "endpoint", "gemini-3.0-pro")
			if err == nil {
				t.Fatal("expected non-nil error")
			}
			if !tt.check(err) {
				t.Errorf("FromErrorCode(%d) = %T, wrong type", tt.code, err)
			}
		})
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(NewAuthError("x")) {
		t.Error("Expected AuthError to be detected")
	}
	if !IsAuthError(fmt.Errorf("init: %w", ErrCookiesExpired)) {
		t.Error("Expected wrapped ErrCookiesExpired to be detected")
	}
	if IsAuthError(errors.New("plain")) {
		t.Error("Expected plain error not to be detected")
	}
}
