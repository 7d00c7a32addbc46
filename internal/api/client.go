package api

import (
	"fmt"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/companion/internal/config"
)

// Client talks to the Gemini Web API with cookie authentication. It owns the
// HTTP transport, the access token, and the optional cookie-rotation loop;
// chat state lives in Session.
type Client struct {
	httpClient      tls_client.HttpClient
	cookies         *config.Cookies
	accessToken     string
	autoRefresh     bool
	refreshInterval time.Duration
	rotator         *CookieRotator
	logger          zerolog.Logger
	mu              sync.RWMutex
	closed          bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithAutoRefresh enables the background cookie rotation loop
func WithAutoRefresh(enabled bool) ClientOption {
	return func(c *Client) {
		c.autoRefresh = enabled
	}
}

// WithRefreshInterval sets the cookie rotation interval
func WithRefreshInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.refreshInterval = interval
	}
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the transport. Used by tests.
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(cookies *config.Cookies, opts ...ClientOption) (*Client, error) {
	if err := config.ValidateCookies(cookies); err != nil {
		return nil, err
	}

	client := &Client{
		cookies:         cookies,
		autoRefresh:     true,
		refreshInterval: 9 * time.Minute,
		logger:          zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Chrome profile for browser emulation; the endpoint rejects
		// generic Go TLS fingerprints.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(300),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Init fetches the access token and starts cookie rotation when enabled
func (c *Client) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	token, err := GetAccessToken(c.httpClient, c.cookies)
	if err != nil {
		return err
	}
	c.accessToken = token
	c.logger.Debug().Msg("access token acquired")

	if c.autoRefresh {
		c.rotator = NewCookieRotator(c.httpClient, c.Cookies, c.setRotatedPSIDTS, c.refreshInterval, c.logger)
		c.rotator.Start()
	}

	return nil
}

// Close shuts down the client and stops background tasks
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.rotator != nil {
		c.rotator.Stop()
	}
}

// AccessToken returns the current access token
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// Cookies returns a snapshot of the client's cookies. Requests work on the
// copy so the rotation loop can swap values without racing them.
func (c *Client) Cookies() config.Cookies {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.cookies
}

// setRotatedPSIDTS applies a rotated __Secure-1PSIDTS under the client lock
func (c *Client) setRotatedPSIDTS(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies.Secure1PSIDTS = value
}

// IsClosed reports whether the client has been closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
