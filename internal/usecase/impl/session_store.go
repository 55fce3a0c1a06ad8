package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// persistedSession is the only shape written to state storage.
type persistedSession struct {
	User *entity.User `json:"user"`
}

type sessionStore struct {
	storage service.StateStorage
	key     string
	logger  *slog.Logger

	mu        sync.RWMutex
	user      *entity.User
	listeners map[uint64]func(*entity.User)
	nextID    uint64
}

// NewSessionStore creates the auth state holder persisted under the
// configured state key.
func NewSessionStore(cfg *config.Config, storage service.StateStorage, logger *slog.Logger) usecase.SessionUsecase {
	key := "auth"
	if cfg.State != nil && cfg.State.Key != "" {
		key = cfg.State.Key
	}

	return &sessionStore{
		storage:   storage,
		key:       key,
		logger:    logger,
		listeners: make(map[uint64]func(*entity.User)),
	}
}

func (s *sessionStore) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user.Clone()
}

func (s *sessionStore) Replace(ctx context.Context, user *entity.User) error {
	if user == nil {
		return s.Clear(ctx)
	}
	stored := user.Clone()

	s.set(stored)

	return s.persist(ctx, stored)
}

func (s *sessionStore) Clear(ctx context.Context) error {
	s.set(nil)

	return s.persist(ctx, nil)
}

func (s *sessionStore) Hydrate(ctx context.Context) error {
	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, service.ErrStateNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to load session state")
	}

	var state persistedSession
	if err := json.Unmarshal(data, &state); err != nil {
		// Unreadable state is treated as signed out
		s.logger.Warn("[SessionStore] Discarding unreadable session state",
			slog.String("key", s.key),
			slog.Any("error", err),
		)

		return nil
	}

	s.set(state.User)
	if state.User != nil {
		s.logger.Debug("[SessionStore] Session restored", slog.String("userID", state.User.ID))
	}

	return nil
}

func (s *sessionStore) Subscribe(listener func(*entity.User)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// set swaps the user and notifies listeners outside the lock.
func (s *sessionStore) set(user *entity.User) {
	s.mu.Lock()
	s.user = user
	listeners := make([]func(*entity.User), 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(user.Clone())
	}
}

func (s *sessionStore) persist(ctx context.Context, user *entity.User) error {
	data, err := json.Marshal(persistedSession{User: user})
	if err != nil {
		return errors.Wrap(err, "failed to encode session state")
	}

	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return errors.Wrap(err, "failed to save session state")
	}

	return nil
}
