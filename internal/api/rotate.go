package api

import (
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/rs/zerolog"

	"github.com/diogo/companion/internal/config"
	apierrors "github.com/diogo/companion/internal/errors"
	"github.com/diogo/companion/internal/models"
)

// RotateCookies refreshes the __Secure-1PSIDTS cookie and returns the new
// value, or empty when the server did not issue one.
func RotateCookies(client tls_client.HttpClient, cookies *config.Cookies) (string, error) {
	req, err := http.NewRequest(
		http.MethodPost,
		models.EndpointRotateCookies,
		strings.NewReader(`[000,"-0000000000000000000"]`),
	)
	if err != nil {
		return "", err
	}

	for key, value := range models.RotateCookiesHeaders() {
		req.Header.Set(key, value)
	}
	addAuthCookies(req, cookies)

	resp, err := client.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("rotate cookies", models.EndpointRotateCookies, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return "", apierrors.NewAuthErrorWithEndpoint("cookie rotation rejected", models.EndpointRotateCookies)
	}
	if resp.StatusCode != 200 {
		return "", apierrors.NewAPIError(resp.StatusCode, models.EndpointRotateCookies, "cookie rotation failed")
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "__Secure-1PSIDTS" {
			return cookie.Value, nil
		}
	}
	return "", nil
}

// CookieRotator keeps the session cookies fresh in the background. The
// endpoint throttles rotation, so intervals under a minute are clamped.
//
// The rotator never touches cookie state directly: it reads a snapshot via
// source and hands the rotated value to commit, so the owner can apply it
// under its own lock while requests are in flight.
type CookieRotator struct {
	client   tls_client.HttpClient
	source   func() config.Cookies
	commit   func(psidts string)
	interval time.Duration
	logger   zerolog.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewCookieRotator creates a rotator; call Start to begin rotation
func NewCookieRotator(client tls_client.HttpClient, source func() config.Cookies, commit func(psidts string), interval time.Duration, logger zerolog.Logger) *CookieRotator {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &CookieRotator{
		client:   client,
		source:   source,
		commit:   commit,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the rotation loop
func (r *CookieRotator) Start() {
	go r.loop()
}

// Stop halts the rotation loop. Safe to call more than once.
func (r *CookieRotator) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

func (r *CookieRotator) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.rotateOnce()
		}
	}
}

func (r *CookieRotator) rotateOnce() {
	cookies := r.source()
	value, err := RotateCookies(r.client, &cookies)
	if err != nil {
		r.logger.Warn().Err(err).Msg("cookie rotation failed")
		return
	}
	if value == "" {
		return
	}

	r.commit(value)

	cookies.Secure1PSIDTS = value
	if err := config.SaveCookies(&cookies); err != nil {
		r.logger.Warn().Err(err).Msg("failed to persist rotated cookies")
	}
	r.logger.Debug().Msg("session cookies rotated")
}
