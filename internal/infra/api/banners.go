package api

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
)

var (
	banners      = resource{plural: "banners", singular: "banner"}
	smallBanners = resource{plural: "small-banners", singular: "small-banner"}
)

// ListBanners fetches the home page slider banners.
func (a *API) ListBanners(ctx context.Context, q Query) (entity.Body, error) {
	return a.get(ctx, BuildURL(banners.all(), q))
}

func (a *API) GetBanner(ctx context.Context, id string) (entity.Body, error) {
	return a.get(ctx, banners.one(id))
}

func (a *API) CreateBanner(ctx context.Context, form *transport.Form) (entity.Body, error) {
	return a.post(ctx, banners.create(), form)
}

func (a *API) UpdateBanner(ctx context.Context, id string, form *transport.Form) (entity.Body, error) {
	return a.put(ctx, banners.update(id), form)
}

func (a *API) DeleteBanner(ctx context.Context, id string) (entity.Body, error) {
	return a.delete(ctx, banners.remove(id))
}

// ListSmallBanners fetches the promotional tiles shown under the slider.
func (a *API) ListSmallBanners(ctx context.Context, q Query) (entity.Body, error) {
	return a.get(ctx, BuildURL(smallBanners.all(), q))
}

func (a *API) GetSmallBanner(ctx context.Context, id string) (entity.Body, error) {
	return a.get(ctx, smallBanners.one(id))
}

func (a *API) CreateSmallBanner(ctx context.Context, form *transport.Form) (entity.Body, error) {
	return a.post(ctx, smallBanners.create(), form)
}

func (a *API) UpdateSmallBanner(ctx context.Context, id string, form *transport.Form) (entity.Body, error) {
	return a.put(ctx, smallBanners.update(id), form)
}

func (a *API) DeleteSmallBanner(ctx context.Context, id string) (entity.Body, error) {
	return a.delete(ctx, smallBanners.remove(id))
}
