package convive

import (
	"net/http"
	"time"
)

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL    string
	token      string
	expiry     time.Duration
	notifier   Notifier
	httpClient *http.Client
}

// WithBaseURL points the client at a non-default server.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *clientConfig) { c.token = token }
}

// WithConfirmExpiry overrides the confirmation window for gates
// created by this client.
func WithConfirmExpiry(d time.Duration) Option {
	return func(c *clientConfig) { c.expiry = d }
}

// WithNotifier routes transition outcomes to the embedding
// application's notification surface.
func WithNotifier(nf Notifier) Option {
	return func(c *clientConfig) { c.notifier = nf }
}

// WithHTTPClient replaces the underlying HTTP client (custom
// transports, test doubles).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}
