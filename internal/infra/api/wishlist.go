package api

import (
	"context"

	"storefront/internal/domain/entity"
)

// AddToWishList saves a product to the user's list.
func (a *API) AddToWishList(ctx context.Context, input *entity.WishListInput) (entity.Body, error) {
	return a.post(ctx, "/api/my-list/add", input)
}

// ListWishList fetches the user's list.
func (a *API) ListWishList(ctx context.Context, userID string) (entity.Body, error) {
	return a.get(ctx, "/api/my-list/"+pathID(userID))
}

// RemoveFromWishList removes an entry from the list.
func (a *API) RemoveFromWishList(ctx context.Context, id string) (entity.Body, error) {
	return a.delete(ctx, "/api/my-list/"+pathID(id))
}
