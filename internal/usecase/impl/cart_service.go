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

// CartKey is the query cache key of the signed-in user's cart.
var CartKey = querycache.Key{"cart"}

type cartUpdate struct {
	id    string
	input *entity.CartUpdateInput
}

type cartService struct {
	query  *userQuery
	add    *Mutation[*entity.CartItemInput]
	update *Mutation[cartUpdate]
	remove *Mutation[string]
}

// NewCartService creates the cart use cases over the given API.
func NewCartService(
	resources *api.API,
	session usecase.SessionUsecase,
	cache *querycache.Cache,
	notifier service.Notifier,
	logger *slog.Logger,
) usecase.CartUsecase {
	return &cartService{
		query: newUserQuery(CartKey, cache, session, resources.ListCart),
		add: NewMutation("add-to-cart", resources.AddToCart,
			cache, notifier, logger, CartKey),
		update: NewMutation("update-cart",
			func(ctx context.Context, in cartUpdate) (entity.Body, error) {
				return resources.UpdateCartItem(ctx, in.id, in.input)
			},
			cache, notifier, logger, CartKey),
		remove: NewMutation("remove-from-cart", resources.DeleteCartItem,
			cache, notifier, logger, CartKey),
	}
}

func (s *cartService) AddToCart(ctx context.Context, input *entity.CartItemInput) (entity.Body, error) {
	return s.add.Mutate(ctx, input)
}

func (s *cartService) UpdateCartItem(ctx context.Context, id string, input *entity.CartUpdateInput) (entity.Body, error) {
	return s.update.Mutate(ctx, cartUpdate{id: id, input: input})
}

func (s *cartService) RemoveFromCart(ctx context.Context, id string) (entity.Body, error) {
	return s.remove.Mutate(ctx, id)
}

func (s *cartService) Cart(ctx context.Context) (entity.Body, error) {
	return s.query.get(ctx)
}

func (s *cartService) WatchCart(listener func(usecase.QueryState)) func() {
	return s.query.watch(listener)
}
