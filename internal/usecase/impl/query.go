package impl

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/querycache"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// userQuery is a cached query scoped to the signed-in user. The key does not
// carry the user id; the query is invalidated whenever the session changes.
type userQuery struct {
	key     querycache.Key
	cache   *querycache.Cache
	session usecase.SessionUsecase
	list    func(ctx context.Context, userID string) (entity.Body, error)
}

func newUserQuery(
	key querycache.Key,
	cache *querycache.Cache,
	session usecase.SessionUsecase,
	list func(ctx context.Context, userID string) (entity.Body, error),
) *userQuery {
	q := &userQuery{
		key:     key,
		cache:   cache,
		session: session,
		list:    list,
	}
	session.Subscribe(func(*entity.User) {
		cache.Invalidate(key)
	})

	return q
}

func (q *userQuery) fetch(ctx context.Context) (entity.Body, error) {
	user := q.session.User()
	if user == nil {
		return entity.Body{}, errors.WithStack(usecase.ErrNoSession)
	}

	return q.list(ctx, user.ID)
}

func (q *userQuery) get(ctx context.Context) (entity.Body, error) {
	return querycache.Query(ctx, q.cache, q.key, q.fetch)
}

func (q *userQuery) watch(listener func(usecase.QueryState)) func() {
	return querycache.Use(q.cache, q.key, q.fetch, func(body entity.Body, snapshot querycache.Snapshot) {
		listener(usecase.QueryState{
			Data:    body,
			Err:     snapshot.Err,
			Loading: snapshot.Status == querycache.StatusPending,
			Stale:   snapshot.Stale,
		})
	})
}
