package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/api"
	"storefront/internal/infra/querycache"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// ErrLoginRequired is returned when the backend sent the CLI to the login page.
var ErrLoginRequired = errors.New("session expired or missing, run `shopctl login`")

type loginInput struct {
	token     string
	userID    string
	email     string
	firstName string
	lastName  string
}

type loginRequest struct {
	Token string `json:"token" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (a *app) products(ctx context.Context, category string) error {
	q := api.Query{}
	if category != "" {
		q["category"] = api.Value(category)
	}

	body, err := querycache.Query(ctx, a.cache, querycache.Key{"products", category},
		func(ctx context.Context) (entity.Body, error) {
			return a.resources.ListProducts(ctx, q)
		})
	if err != nil {
		return a.explain(err)
	}

	return a.print(body)
}

func (a *app) cart(ctx context.Context) error {
	body, err := a.cartUsecase.Cart(ctx)
	if err != nil {
		return a.explain(err)
	}

	return a.print(body)
}

func (a *app) cartAdd(ctx context.Context, productID string, quantity int) error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	input := &entity.CartItemInput{
		UserID:    user.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := validator.New().Validate(input); err != nil {
		return errors.Errorf("invalid cart line: %s", validator.Describe(err))
	}

	if _, err := a.cartUsecase.AddToCart(ctx, input); err != nil {
		return a.explain(err)
	}

	// The add invalidated the cart; this read fetches the new contents
	return a.cart(ctx)
}

func (a *app) wishList(ctx context.Context) error {
	body, err := a.wishListUsecase.WishList(ctx)
	if err != nil {
		return a.explain(err)
	}

	return a.print(body)
}

func (a *app) wishListAdd(ctx context.Context, productID string) error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	input := &entity.WishListInput{
		UserID:    user.ID,
		ProductID: productID,
	}
	if err := validator.New().Validate(input); err != nil {
		return errors.Errorf("invalid wish-list entry: %s", validator.Describe(err))
	}

	if _, err := a.wishListUsecase.AddToWishList(ctx, input); err != nil {
		return a.explain(err)
	}

	return a.wishList(ctx)
}

func (a *app) whoami() error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	return a.print(user)
}

// login stores the session token the backend issued and the profile shown
// by whoami. The token itself is never verified here.
func (a *app) login(ctx context.Context, in loginInput) error {
	req := loginRequest{Token: in.token, Email: in.email}
	if err := validator.New().Validate(&req); err != nil {
		return errors.Errorf("invalid login: %s", validator.Describe(err))
	}

	user := &entity.User{
		ID:        in.userID,
		Email:     in.email,
		FirstName: in.firstName,
		LastName:  in.lastName,
	}
	if claims, ok := a.inspector.Inspect(in.token); ok {
		if user.ID == "" {
			user.ID = claims.Subject
		}
		for _, role := range claims.Roles {
			if entity.Role(role) == entity.RoleAdmin {
				user.Role = entity.RoleAdmin
			}
		}
	}
	if user.ID == "" {
		return errors.New("user id is required when the token carries no subject")
	}

	if err := a.storage.Save(ctx, sessionTokenKey, []byte(in.token)); err != nil {
		return errors.Wrap(err, "save session token")
	}
	a.client.SetSessionToken(in.token)

	if err := a.session.Replace(ctx, user); err != nil {
		return err
	}

	a.logger.Info("[Session] Signed in", slog.String("user_id", user.ID))
	if user.IsAdmin() {
		fmt.Fprintf(a.stdout, "Signed in as %s (admin)\n", displayName(user))
	} else {
		fmt.Fprintf(a.stdout, "Signed in as %s\n", displayName(user))
	}

	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	if err := a.storage.Delete(ctx, sessionTokenKey); err != nil {
		return errors.Wrap(err, "delete session token")
	}
	a.client.ClearSession()
	a.cache.Remove(querycache.Key{})

	fmt.Fprintln(a.stdout, "Signed out")

	return nil
}

func (a *app) requireUser() (*entity.User, error) {
	user := a.session.User()
	if user == nil {
		return nil, ErrLoginRequired
	}

	return user, nil
}

// explain turns a login redirect or a missing session into ErrLoginRequired.
func (a *app) explain(err error) error {
	if errors.Is(err, usecase.ErrNoSession) || a.history.Location() == a.cfg.Auth.LoginPath {
		return errors.Wrap(ErrLoginRequired, err.Error())
	}

	return err
}

func (a *app) print(v any) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")

	return errors.WithStack(encoder.Encode(v))
}

func displayName(user *entity.User) string {
	if name := user.FullName(); name != "" {
		return name
	}
	if user.Email != "" {
		return user.Email
	}

	return user.ID
}
