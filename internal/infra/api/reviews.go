package api

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
)

// PostReview submits a review for a product.
func (a *API) PostReview(ctx context.Context, input *entity.ReviewInput) (entity.Body, error) {
	return a.post(ctx, "/api/reviews/post-review", input)
}

// ListReviews fetches a product's reviews. Unlike the other listings it
// returns only the nested "reviews" field, not the whole body.
func (a *API) ListReviews(ctx context.Context, productID string) ([]entity.Review, error) {
	resp, err := a.client.Get(ctx, BuildURL("/api/reviews", Query{"productId": Value(productID)}))
	if err != nil {
		return nil, err
	}

	return reviewsFromResponse(resp)
}

// reviewsFromResponse is the review listing's response mapping.
func reviewsFromResponse(resp *transport.Response) ([]entity.Review, error) {
	var out struct {
		Reviews []entity.Review `json:"reviews"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}

	return out.Reviews, nil
}
