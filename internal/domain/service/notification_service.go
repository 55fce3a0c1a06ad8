package service

import (
	"context"
)

// Notifier surfaces user-visible notifications (toasts) for completed writes.
type Notifier interface {
	// Success shows a confirmation carrying the server supplied message
	Success(ctx context.Context, message string)

	// Error shows a failure message
	Error(ctx context.Context, message string)
}
