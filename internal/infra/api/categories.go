package api

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
)

var categories = resource{plural: "categories", singular: "category"}

// ListCategories fetches the category listing.
func (a *API) ListCategories(ctx context.Context, q Query) (entity.Body, error) {
	return a.get(ctx, BuildURL(categories.all(), q))
}

// ListCategoryOptions fetches the category listing narrowed to id, name and
// image, the fields product forms and menus use.
func (a *API) ListCategoryOptions(ctx context.Context, q Query) ([]entity.Category, error) {
	out, err := a.ListCategories(ctx, q)
	if err != nil {
		return nil, err
	}

	var options []entity.Category
	if err := out.Narrow("categories", &options); err != nil {
		return nil, err
	}

	return options, nil
}

// GetCategory fetches a single category.
func (a *API) GetCategory(ctx context.Context, id string) (entity.Body, error) {
	return a.get(ctx, categories.one(id))
}

// CreateCategory uploads a new category with its image.
func (a *API) CreateCategory(ctx context.Context, form *transport.Form) (entity.Body, error) {
	return a.post(ctx, categories.create(), form)
}

// UpdateCategory replaces a category.
func (a *API) UpdateCategory(ctx context.Context, id string, form *transport.Form) (entity.Body, error) {
	return a.put(ctx, categories.update(id), form)
}

// DeleteCategory removes a category.
func (a *API) DeleteCategory(ctx context.Context, id string) (entity.Body, error) {
	return a.delete(ctx, categories.remove(id))
}
