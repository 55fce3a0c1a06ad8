package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// WishListUsecase defines the wish-list writes and the cached wish-list query.
type WishListUsecase interface {
	AddToWishList(ctx context.Context, input *entity.WishListInput) (entity.Body, error)
	RemoveFromWishList(ctx context.Context, id string) (entity.Body, error)
	WishList(ctx context.Context) (entity.Body, error)
	WatchWishList(listener func(QueryState)) (unsubscribe func())
}
