package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CartUsecase defines the cart writes and the cached cart query.
// Every successful write invalidates the cart query exactly once.
type CartUsecase interface {
	// AddToCart adds a product line
	AddToCart(ctx context.Context, input *entity.CartItemInput) (entity.Body, error)

	// UpdateCartItem changes the quantity of a line
	UpdateCartItem(ctx context.Context, id string, input *entity.CartUpdateInput) (entity.Body, error)

	// RemoveFromCart deletes a line
	RemoveFromCart(ctx context.Context, id string) (entity.Body, error)

	// Cart returns the signed-in user's cart from the query cache
	Cart(ctx context.Context) (entity.Body, error)

	// WatchCart streams cart query states until unsubscribed
	WatchCart(listener func(QueryState)) (unsubscribe func())
}
