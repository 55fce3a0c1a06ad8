package api

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
)

var blogs = resource{plural: "blogs", singular: "blog"}

func (a *API) ListBlogs(ctx context.Context, q Query) (entity.Body, error) {
	return a.get(ctx, BuildURL(blogs.all(), q))
}

func (a *API) GetBlog(ctx context.Context, id string) (entity.Body, error) {
	return a.get(ctx, blogs.one(id))
}

func (a *API) CreateBlog(ctx context.Context, form *transport.Form) (entity.Body, error) {
	return a.post(ctx, blogs.create(), form)
}

func (a *API) UpdateBlog(ctx context.Context, id string, form *transport.Form) (entity.Body, error) {
	return a.put(ctx, blogs.update(id), form)
}

func (a *API) DeleteBlog(ctx context.Context, id string) (entity.Body, error) {
	return a.delete(ctx, blogs.remove(id))
}
