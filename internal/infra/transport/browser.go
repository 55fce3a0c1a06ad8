package transport

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"storefront/config"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// Navigator is the browser location the client may redirect.
type Navigator interface {
	// Location returns the current path (or URL)
	Location() string

	// Redirect performs a full navigation to path
	Redirect(path string)
}

// BrowserClient is the transport for browser contexts. Cookies set by the
// backend are stored in the jar and attached to every later request.
type BrowserClient struct {
	*dispatcher

	jar http.CookieJar
}

type browserCredentials struct {
	policy    *AuthPolicy
	navigator Navigator
	logger    *slog.Logger
}

// NewBrowserClient creates the browser-context client bound to the public base URL.
func NewBrowserClient(cfg *config.Config, policy *AuthPolicy, navigator Navigator, logger *slog.Logger) (*BrowserClient, error) {
	baseURL, err := parseBaseURL(cfg.API.PublicBaseURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &BrowserClient{
		dispatcher: &dispatcher{
			name:    "[BrowserTransport]",
			baseURL: baseURL,
			httpClient: &http.Client{
				Timeout: cfg.API.Timeout,
				Jar:     jar,
			},
			policy: policy,
			strategy: &browserCredentials{
				policy:    policy,
				navigator: navigator,
				logger:    logger,
			},
			logger: logger,
		},
		jar: jar,
	}, nil
}

// SetSessionToken stores token as the session cookie for the API origin.
func (c *BrowserClient) SetSessionToken(token string) {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  c.policy.CookieName,
		Value: token,
		Path:  "/",
	}})
}

// SessionToken returns the session cookie currently held for the API origin.
func (c *BrowserClient) SessionToken() (string, bool) {
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		if cookie.Name == c.policy.CookieName && cookie.Value != "" {
			return cookie.Value, true
		}
	}

	return "", false
}

// ClearSession drops the session cookie.
func (c *BrowserClient) ClearSession() {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:   c.policy.CookieName,
		Path:   "/",
		MaxAge: -1,
	}})
}

// attach is a no-op: the jar adds cookies when the request is sent.
func (b *browserCredentials) attach(context.Context, *http.Request) error {
	return nil
}

// unauthenticated redirects to login unless the user is already there, then
// lets the error continue to the caller.
func (b *browserCredentials) unauthenticated(ctx context.Context, respErr *ResponseError) error {
	location := b.navigator.Location()
	if b.policy.IsLoginLocation(location) {
		return respErr
	}

	b.logger.InfoContext(ctx, "[BrowserTransport] Session missing, redirecting to login",
		slog.String("from", location),
		slog.String("path", respErr.Path),
	)
	b.navigator.Redirect(b.policy.LoginPath)

	return respErr
}
