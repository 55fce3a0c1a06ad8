package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/infra/querycache"
	"storefront/internal/infra/transport"
)

// FallbackErrorMessage is shown when a failed write carries no backend message.
const FallbackErrorMessage = "Something went wrong, please try again"

// WriteFunc performs one backend write.
type WriteFunc[In any] func(ctx context.Context, in In) (entity.Body, error)

// Mutation wraps a write with user feedback and cache invalidation.
type Mutation[In any] struct {
	name        string
	write       WriteFunc[In]
	invalidates []querycache.Key
	cache       *querycache.Cache
	notifier    service.Notifier
	logger      *slog.Logger
}

// NewMutation creates a mutation that invalidates keys after every success.
func NewMutation[In any](
	name string,
	write WriteFunc[In],
	cache *querycache.Cache,
	notifier service.Notifier,
	logger *slog.Logger,
	invalidates ...querycache.Key,
) *Mutation[In] {
	return &Mutation[In]{
		name:        name,
		write:       write,
		invalidates: invalidates,
		cache:       cache,
		notifier:    notifier,
		logger:      logger,
	}
}

// Mutate issues the write once. On success the backend message is shown and
// the associated queries are invalidated; on failure the error message is
// shown, nothing is invalidated and the error is returned.
func (m *Mutation[In]) Mutate(ctx context.Context, in In) (entity.Body, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, m.logger).With(slog.String("mutation", m.name))

	body, err := m.write(ctx, in)
	if err != nil {
		message, ok := transport.ErrorMessage(err)
		if !ok || message == "" {
			message = FallbackErrorMessage
		}
		logger.Warn("[Mutation] Write failed", slog.Any("error", err))
		m.notifier.Error(ctx, message)

		return entity.Body{}, err
	}

	m.notifier.Success(ctx, body.Message())
	if len(m.invalidates) > 0 {
		m.cache.Invalidate(m.invalidates...)
	}
	logger.Debug("[Mutation] Write succeeded", slog.Any("invalidated", m.invalidates))

	return body, nil
}
