package api

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogo/companion/internal/config"
	apierrors "github.com/diogo/companion/internal/errors"
)

func TestRotateCookies(t *testing.T) {
	mock := NewMockHttpClient([]byte("{}"), 200)
	mock.Responses[0].Header.Add("Set-Cookie", "__Secure-1PSIDTS=fresh-value; Path=/; Secure; HttpOnly")

	value, err := RotateCookies(mock, testCookies())
	if err != nil {
		t.Fatalf("RotateCookies failed: %v", err)
	}
	if value != "fresh-value" {
		t.Errorf("value = %q, want fresh-value", value)
	}
}

func TestRotateCookies_NoCookieIssued(t *testing.T) {
	mock := NewMockHttpClient([]byte("{}"), 200)

	value, err := RotateCookies(mock, testCookies())
	if err != nil {
		t.Fatalf("RotateCookies failed: %v", err)
	}
	if value != "" {
		t.Errorf("value = %q, want empty", value)
	}
}

func TestRotateCookies_AuthRejected(t *testing.T) {
	mock := NewMockHttpClient([]byte("unauthorized"), 401)

	_, err := RotateCookies(mock, testCookies())
	if !apierrors.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestCookieRotator_ClampsInterval(t *testing.T) {
	rotator := NewCookieRotator(NewMockHttpClient(nil, 200),
		func() config.Cookies { return *testCookies() },
		func(string) {},
		time.Second, zerolog.Nop())
	if rotator.interval != time.Minute {
		t.Errorf("interval = %v, want clamped to 1m", rotator.interval)
	}
}

func TestCookieRotator_StopIsIdempotent(t *testing.T) {
	rotator := NewCookieRotator(NewMockHttpClient(nil, 200),
		func() config.Cookies { return *testCookies() },
		func(string) {},
		time.Minute, zerolog.Nop())
	rotator.Start()
	rotator.Stop()
	rotator.Stop() // must not panic
}

func TestCookieRotator_CommitsThroughClient(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	mock := NewMockHttpClient([]byte("{}"), 200)
	mock.Responses[0].Header.Add("Set-Cookie", "__Secure-1PSIDTS=rotated-value; Path=/; Secure; HttpOnly")

	client, err := NewClient(testCookies(), WithHTTPClient(mock), WithAutoRefresh(false))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	rotator := NewCookieRotator(mock, client.Cookies, client.setRotatedPSIDTS, time.Minute, zerolog.Nop())

	// Readers holding earlier snapshots stay valid while rotation commits
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = client.Cookies().Secure1PSIDTS
		}
	}()
	rotator.rotateOnce()
	<-done

	if got := client.Cookies().Secure1PSIDTS; got != "rotated-value" {
		t.Errorf("Secure1PSIDTS = %q, want rotated-value", got)
	}
	// The rotated value is persisted for the next run
	saved, err := config.LoadCookies()
	if err != nil {
		t.Fatalf("LoadCookies failed: %v", err)
	}
	if saved.Secure1PSIDTS != "rotated-value" {
		t.Errorf("persisted Secure1PSIDTS = %q, want rotated-value", saved.Secure1PSIDTS)
	}
}
