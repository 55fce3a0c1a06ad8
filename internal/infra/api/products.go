package api

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
)

var products = resource{plural: "products", singular: "product"}

// ListProducts fetches the product listing, e.g. {"category": Value("shoes")}.
func (a *API) ListProducts(ctx context.Context, q Query) (entity.Body, error) {
	return a.get(ctx, BuildURL(products.all(), q))
}

// GetProduct fetches a single product.
func (a *API) GetProduct(ctx context.Context, id string) (entity.Body, error) {
	return a.get(ctx, products.one(id))
}

// CreateProduct uploads a new product with its images.
func (a *API) CreateProduct(ctx context.Context, form *transport.Form) (entity.Body, error) {
	return a.post(ctx, products.create(), form)
}

// UpdateProduct replaces a product's fields and images.
func (a *API) UpdateProduct(ctx context.Context, id string, form *transport.Form) (entity.Body, error) {
	return a.put(ctx, products.update(id), form)
}

// DeleteProduct archives a product. The backend keeps the record (orders and
// reviews still reference it), so this is a PATCH on the delete route rather
// than a DELETE; repeating it is harmless.
func (a *API) DeleteProduct(ctx context.Context, id string) (entity.Body, error) {
	return a.patch(ctx, products.remove(id), nil)
}
