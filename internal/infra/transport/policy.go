package transport

import (
	"net/http"
	"net/url"
	"strings"

	"storefront/config"
)

// AuthPolicy decides when a failed response means "log in again" and where
// login lives. Both clients share one instance.
type AuthPolicy struct {
	// LoginPath is the page users are sent to when the session is missing
	LoginPath string
	// CookieName is the session cookie carrying the token
	CookieName string
	// UnauthenticatedMessage is the exact backend message that triggers a redirect
	UnauthenticatedMessage string
}

// NewAuthPolicy builds the policy from config. Config.ApplyDefaults fills
// the fields when they are not configured.
func NewAuthPolicy(cfg *config.Config) *AuthPolicy {
	return &AuthPolicy{
		LoginPath:              cfg.Auth.LoginPath,
		CookieName:             cfg.Auth.CookieName,
		UnauthenticatedMessage: cfg.Auth.UnauthenticatedMessage,
	}
}

// IsUnauthenticated reports whether respErr is the 401 carrying the login message.
// Other 401s (wrong password, expired reset links) are ordinary errors.
func (p *AuthPolicy) IsUnauthenticated(respErr *ResponseError) bool {
	if respErr == nil || respErr.Response == nil {
		return false
	}

	return respErr.Response.StatusCode == http.StatusUnauthorized &&
		respErr.Data.Message == p.UnauthenticatedMessage
}

// IsLoginLocation reports whether location (a path or absolute URL) is the login page.
func (p *AuthPolicy) IsLoginLocation(location string) bool {
	path := location
	if parsed, err := url.Parse(location); err == nil {
		path = parsed.Path
	}

	return trimSlash(path) == trimSlash(p.LoginPath)
}

func trimSlash(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}

	return trimmed
}
