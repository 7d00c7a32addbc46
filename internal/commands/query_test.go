package commands

import (
	"strings"
	"testing"

	apierrors "github.com/diogo/companion/internal/errors"
)

func TestFormatConnectError(t *testing.T) {
	authErr := &apierrors.AuthError{Message: "token fetch failed"}
	formatted := formatConnectError(authErr)
	if !strings.Contains(formatted.Error(), "import-cookies") {
		t.Errorf("auth error should suggest re-importing cookies: %v", formatted)
	}

	netErr := &apierrors.NetworkError{Op: "generate"}
	formatted = formatConnectError(netErr)
	if !strings.Contains(formatted.Error(), "connection") {
		t.Errorf("network error should suggest checking the connection: %v", formatted)
	}

	plain := apierrors.ErrInvalidResponse
	if formatConnectError(plain) != plain {
		t.Error("unclassified errors should pass through unchanged")
	}
}

func TestFormatSendError(t *testing.T) {
	quota := &apierrors.UsageLimitError{Model: "gemini-3.0-pro"}
	formatted := formatSendError(quota)
	if !strings.Contains(formatted.Error(), "wait") {
		t.Errorf("quota error should ask the user to wait: %v", formatted)
	}

	plain := apierrors.ErrInvalidResponse
	if formatSendError(plain) != plain {
		t.Error("unclassified errors should pass through unchanged")
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	s := newSpinner("working")
	s.start()

	// Stopping twice must not panic on a double close
	s.stopWithError()
	s.stopWithError()
}
