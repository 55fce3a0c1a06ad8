package impl

import (
	"context"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	mockService "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// sessionStoreFixtures holds all test dependencies for session store tests.
type sessionStoreFixtures struct {
	store   usecase.SessionUsecase
	storage *mockService.MockStateStorage
}

func createTestSessionStore(t *testing.T) sessionStoreFixtures {
	storage := mockService.NewMockStateStorage(t)
	cfg := &config.Config{State: &config.StateConfig{Key: "auth"}}

	return sessionStoreFixtures{
		store:   NewSessionStore(cfg, storage, newDiscardLogger()),
		storage: storage,
	}
}

func TestSessionStore_ReplacePersistsOnlyUser(t *testing.T) {
	fx := createTestSessionStore(t)
	ctx := context.Background()

	var saved []byte
	fx.storage.EXPECT().
		Save(ctx, "auth", mock.Anything).
		Run(func(_ context.Context, _ string, data []byte) { saved = data }).
		Return(nil).
		Once()

	user := &entity.User{
		ID:        "u1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Gender:    entity.GenderFemale,
		Addresses: []entity.Address{{Line: "1 Main St", City: "London", Country: "UK"}},
	}
	require.NoError(t, fx.store.Replace(ctx, user))

	assert.JSONEq(t, `{"user":{
		"_id":"u1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","gender":"Female",
		"addresses":[{"line":"1 Main St","city":"London","state":"","zip":"","country":"UK"}]
	}}`, string(saved))

	current := fx.store.User()
	require.NotNil(t, current)
	assert.Equal(t, "Ada Lovelace", current.FullName())

	// Callers cannot mutate the stored user through the returned value
	current.FirstName = "Grace"
	assert.Equal(t, "Ada", fx.store.User().FirstName)
}

func TestSessionStore_AddressesAreNotShared(t *testing.T) {
	fx := createTestSessionStore(t)
	ctx := context.Background()
	fx.storage.EXPECT().Save(ctx, "auth", mock.Anything).Return(nil).Once()

	user := &entity.User{ID: "u1", Addresses: []entity.Address{{City: "Paris"}}}
	var notified *entity.User
	unsubscribe := fx.store.Subscribe(func(u *entity.User) { notified = u })
	defer unsubscribe()

	require.NoError(t, fx.store.Replace(ctx, user))

	// The caller's value, the returned value and the listener's value are all detached
	user.Addresses[0].City = "Berlin"
	fx.store.User().Addresses[0].City = "Rome"
	require.NotNil(t, notified)
	notified.Addresses[0].City = "Madrid"

	assert.Equal(t, "Paris", fx.store.User().Addresses[0].City)
}

func TestSessionStore_ClearPersistsNullUser(t *testing.T) {
	fx := createTestSessionStore(t)
	ctx := context.Background()

	var saved []byte
	fx.storage.EXPECT().Save(ctx, "auth", mock.Anything).Return(nil).Once()
	fx.storage.EXPECT().
		Save(ctx, "auth", mock.Anything).
		Run(func(_ context.Context, _ string, data []byte) { saved = data }).
		Return(nil).
		Once()

	require.NoError(t, fx.store.Replace(ctx, &entity.User{ID: "u1"}))
	require.NoError(t, fx.store.Clear(ctx))

	assert.Nil(t, fx.store.User())
	assert.JSONEq(t, `{"user":null}`, string(saved))
}

func TestSessionStore_Hydrate(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		err     error
		wantID  string
		wantErr bool
	}{
		{name: "restores user", data: []byte(`{"user":{"_id":"u1","firstName":"Ada"}}`), wantID: "u1"},
		{name: "nothing persisted", err: service.ErrStateNotFound},
		{name: "signed out state", data: []byte(`{"user":null}`)},
		{name: "unreadable state", data: []byte(`{"user":`)},
		{name: "unknown gender is unreadable", data: []byte(`{"user":{"_id":"u1","gender":"robot"}}`)},
		{name: "storage failure", err: errors.New("disk gone"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestSessionStore(t)
			ctx := context.Background()

			fx.storage.EXPECT().Load(ctx, "auth").Return(tt.data, tt.err).Once()

			err := fx.store.Hydrate(ctx)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, fx.store.User())

				return
			}
			require.NoError(t, err)

			if tt.wantID == "" {
				assert.Nil(t, fx.store.User())

				return
			}
			require.NotNil(t, fx.store.User())
			assert.Equal(t, tt.wantID, fx.store.User().ID)
		})
	}
}

func TestSessionStore_SaveFailure(t *testing.T) {
	fx := createTestSessionStore(t)
	ctx := context.Background()

	fx.storage.EXPECT().Save(ctx, "auth", mock.Anything).Return(errors.New("quota exceeded")).Once()

	err := fx.store.Replace(ctx, &entity.User{ID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	// The in-memory session still reflects the latest sign in
	assert.Equal(t, "u1", fx.store.User().ID)
}

func TestSessionStore_Subscribe(t *testing.T) {
	fx := createTestSessionStore(t)
	ctx := context.Background()

	fx.storage.EXPECT().Save(ctx, "auth", mock.Anything).Return(nil).Times(2)

	var seen []string
	unsubscribe := fx.store.Subscribe(func(user *entity.User) {
		if user == nil {
			seen = append(seen, "")

			return
		}
		seen = append(seen, user.ID)
	})

	require.NoError(t, fx.store.Replace(ctx, &entity.User{ID: "u1"}))
	unsubscribe()
	require.NoError(t, fx.store.Clear(ctx))

	assert.Equal(t, []string{"u1"}, seen)
}
