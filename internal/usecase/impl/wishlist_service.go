package impl

import (
	"context"
	"log/slog"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/infra/api"
	"storefront/internal/infra/querycache"
	"storefront/internal/usecase"
)

// WishListKey is the query cache key of the signed-in user's wish-list.
var WishListKey = querycache.Key{"wishlist"}

type wishListService struct {
	query  *userQuery
	add    *Mutation[*entity.WishListInput]
	remove *Mutation[string]
}

// NewWishListService creates the wish-list use cases over the given API.
func NewWishListService(
	resources *api.API,
	session usecase.SessionUsecase,
	cache *querycache.Cache,
	notifier service.Notifier,
	logger *slog.Logger,
) usecase.WishListUsecase {
	return &wishListService{
		query:  newUserQuery(WishListKey, cache, session, resources.ListWishList),
		add:    NewMutation("add-to-wishlist", resources.AddToWishList, cache, notifier, logger, WishListKey),
		remove: NewMutation("remove-from-wishlist", resources.RemoveFromWishList, cache, notifier, logger, WishListKey),
	}
}

func (s *wishListService) AddToWishList(ctx context.Context, input *entity.WishListInput) (entity.Body, error) {
	return s.add.Mutate(ctx, input)
}

func (s *wishListService) RemoveFromWishList(ctx context.Context, id string) (entity.Body, error) {
	return s.remove.Mutate(ctx, id)
}

func (s *wishListService) WishList(ctx context.Context) (entity.Body, error) {
	return s.query.get(ctx)
}

func (s *wishListService) WatchWishList(listener func(usecase.QueryState)) func() {
	return s.query.watch(listener)
}
