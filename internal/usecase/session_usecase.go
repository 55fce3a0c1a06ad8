// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// SessionUsecase holds the signed-in user for the client and persists it
// across restarts. The zero state is "no user".
type SessionUsecase interface {
	// User returns the current user or nil when signed out
	User() *entity.User

	// Replace stores user as the current user and persists it
	Replace(ctx context.Context, user *entity.User) error

	// Clear signs the user out locally
	Clear(ctx context.Context) error

	// Hydrate restores the persisted user, if any
	Hydrate(ctx context.Context) error

	// Subscribe registers listener for user changes and returns a function
	// that removes it
	Subscribe(listener func(*entity.User)) (unsubscribe func())
}
