// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/domain/service"
)

// jwtInspector reads session token claims without verifying the signature.
// The storefront never holds the signing secret, so the claims are only
// trusted for log context, never for authorization decisions.
type jwtInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector is the constructor for jwtInspector.
func NewJWTInspector() service.TokenInspector {
	return &jwtInspector{
		parser: jwt.NewParser(),
	}
}

// Inspect returns the subject and roles carried by the token.
func (i *jwtInspector) Inspect(tokenString string) (*service.SessionClaims, bool) {
	if tokenString == "" {
		return nil, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, false
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, false
	}
	// Some backends put the user id under "id" instead of "sub"
	if subject == "" {
		subject, _ = claims["id"].(string)
	}

	rolesClaim, _ := claims["roles"].([]any)
	var roles []string
	for _, r := range rolesClaim {
		if roleStr, ok := r.(string); ok {
			roles = append(roles, roleStr)
		}
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		roles = append(roles, role)
	}

	return &service.SessionClaims{
		Subject: subject,
		Roles:   roles,
	}, true
}
