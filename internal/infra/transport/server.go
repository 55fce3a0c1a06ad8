package transport

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

// ErrLoginRedirect is returned when the server client answered the incoming
// request with a redirect to the login page. Handlers should stop and return.
var ErrLoginRedirect = errors.New("redirected to login")

// RequestContext is the incoming request/response pair of a server-side
// call. echo.Context satisfies it.
type RequestContext interface {
	Cookie(name string) (*http.Cookie, error)
	Redirect(code int, url string) error
}

// loginRedirectError keeps the backend response reachable through errors.As
// while matching ErrLoginRedirect through errors.Is.
type loginRedirectError struct {
	cause *ResponseError
}

func (e *loginRedirectError) Error() string {
	return ErrLoginRedirect.Error() + ": " + e.cause.Error()
}

func (e *loginRedirectError) Is(target error) bool {
	return target == ErrLoginRedirect
}

func (e *loginRedirectError) Unwrap() error {
	return e.cause
}

// ServerClientFactory creates one server-side client per incoming request.
// The HTTP connection pool is shared across requests.
type ServerClientFactory struct {
	baseURL    *url.URL
	httpClient *http.Client
	policy     *AuthPolicy
	inspector  service.TokenInspector
	logger     *slog.Logger
}

// NewServerClientFactory creates the factory bound to the server-only base URL.
func NewServerClientFactory(cfg *config.Config, policy *AuthPolicy, inspector service.TokenInspector, logger *slog.Logger) (*ServerClientFactory, error) {
	baseURL, err := parseBaseURL(cfg.API.ServerBaseURL)
	if err != nil {
		return nil, err
	}

	return &ServerClientFactory{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		policy:    policy,
		inspector: inspector,
		logger:    logger,
	}, nil
}

// ForRequest returns a client that forwards rc's session cookie and
// redirects rc to login when the session is missing or rejected.
func (f *ServerClientFactory) ForRequest(rc RequestContext) Client {
	return &dispatcher{
		name:       "[ServerTransport]",
		baseURL:    f.baseURL,
		httpClient: f.httpClient,
		policy:     f.policy,
		strategy: &serverCredentials{
			policy:    f.policy,
			rc:        rc,
			inspector: f.inspector,
			logger:    f.logger,
		},
		logger: f.logger,
	}
}

type serverCredentials struct {
	policy    *AuthPolicy
	rc        RequestContext
	inspector service.TokenInspector
	logger    *slog.Logger

	redirectOnce sync.Once
}

// attach forwards the session token as a Cookie header. Without a token the
// request is not sent at all.
func (s *serverCredentials) attach(ctx context.Context, req *http.Request) error {
	cookie, err := s.rc.Cookie(s.policy.CookieName)
	if err != nil || cookie == nil || cookie.Value == "" {
		s.redirect(ctx, "no session cookie")

		return ErrLoginRedirect
	}

	req.Header.Set("Cookie", s.policy.CookieName+"="+cookie.Value)

	if s.inspector != nil {
		if claims, ok := s.inspector.Inspect(cookie.Value); ok {
			deliverycontext.GetLoggerOrDefault(ctx, s.logger).Debug("[ServerTransport] Forwarding session",
				slog.String("subject", claims.Subject),
				slog.String("path", req.URL.Path),
			)
		}
	}

	return nil
}

func (s *serverCredentials) unauthenticated(ctx context.Context, respErr *ResponseError) error {
	s.redirect(ctx, respErr.Data.Message)

	return &loginRedirectError{cause: respErr}
}

// redirect answers the incoming request once, even when several backend
// calls of the same request fail concurrently.
func (s *serverCredentials) redirect(ctx context.Context, reason string) {
	s.redirectOnce.Do(func() {
		logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)
		logger.Info("[ServerTransport] Redirecting to login", slog.String("reason", reason))

		if err := s.rc.Redirect(http.StatusFound, s.policy.LoginPath); err != nil {
			logger.Error("[ServerTransport] Login redirect failed", slog.Any("error", err))
		}
	})
}
