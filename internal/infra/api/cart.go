package api

import (
	"context"

	"storefront/internal/domain/entity"
)

// AddToCart adds a product line to the user's cart.
func (a *API) AddToCart(ctx context.Context, input *entity.CartItemInput) (entity.Body, error) {
	return a.post(ctx, "/api/carts/add", input)
}

// ListCart fetches the user's cart.
func (a *API) ListCart(ctx context.Context, userID string) (entity.Body, error) {
	return a.get(ctx, "/api/carts/"+pathID(userID))
}

// UpdateCartItem changes the quantity of a cart line.
func (a *API) UpdateCartItem(ctx context.Context, id string, input *entity.CartUpdateInput) (entity.Body, error) {
	return a.put(ctx, "/api/carts/update-cart/"+pathID(id), input)
}

// DeleteCartItem removes a cart line.
func (a *API) DeleteCartItem(ctx context.Context, id string) (entity.Body, error) {
	return a.delete(ctx, "/api/carts/delete-cart/"+pathID(id))
}
