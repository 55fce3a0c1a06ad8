package service

// SessionClaims is what the client may read from a session token without
// verifying it. The backend remains the only party that validates tokens.
type SessionClaims struct {
	Subject string
	Roles   []string
}

// TokenInspector reads session token claims for logging and display.
type TokenInspector interface {
	// Inspect returns the claims carried by token, or false when the token is
	// not a readable JWT.
	Inspect(token string) (*SessionClaims, bool)
}
