package handler

import (
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/delivery/http/validator"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ShopperHandler serves the signed-in shopper's cart, wish-list and reviews.
// Routes must sit behind AuthMiddleware.RequireSubject.
type ShopperHandler struct {
	resources *ResourceFactory
}

// NewShopperHandler is the constructor for ShopperHandler, injected by Fx.
func NewShopperHandler(resources *ResourceFactory) *ShopperHandler {
	return &ShopperHandler{resources: resources}
}

// AddToCartRequest is the cart line sent by the page. The user comes from the session.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// AddToWishListRequest is the wish-list entry sent by the page.
type AddToWishListRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// PostReviewRequest is the review sent by the product page.
type PostReviewRequest struct {
	Rating  float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment string  `json:"comment" validate:"max=2000"`
}

// GetCart returns the shopper's cart.
func (h *ShopperHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	body, err := h.resources.For(c).ListCart(ctx, deliverycontext.GetSessionSubject(ctx))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// AddToCart adds a product line for the shopper.
func (h *ShopperHandler) AddToCart(c echo.Context) error {
	var req AddToCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	body, err := h.resources.For(c).AddToCart(ctx, &entity.CartItemInput{
		UserID:    deliverycontext.GetSessionSubject(ctx),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusCreated, body)
}

// UpdateCartItem changes a line's quantity.
func (h *ShopperHandler) UpdateCartItem(c echo.Context) error {
	var req entity.CartUpdateInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	body, err := h.resources.For(c).UpdateCartItem(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// RemoveCartItem deletes a line.
func (h *ShopperHandler) RemoveCartItem(c echo.Context) error {
	body, err := h.resources.For(c).DeleteCartItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// GetWishList returns the shopper's list.
func (h *ShopperHandler) GetWishList(c echo.Context) error {
	ctx := c.Request().Context()
	body, err := h.resources.For(c).ListWishList(ctx, deliverycontext.GetSessionSubject(ctx))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// AddToWishList saves a product for the shopper.
func (h *ShopperHandler) AddToWishList(c echo.Context) error {
	var req AddToWishListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	body, err := h.resources.For(c).AddToWishList(ctx, &entity.WishListInput{
		UserID:    deliverycontext.GetSessionSubject(ctx),
		ProductID: req.ProductID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusCreated, body)
}

// RemoveFromWishList deletes a list entry.
func (h *ShopperHandler) RemoveFromWishList(c echo.Context) error {
	body, err := h.resources.For(c).RemoveFromWishList(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// PostReview reviews the product in the path as the shopper.
func (h *ShopperHandler) PostReview(c echo.Context) error {
	var req PostReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	body, err := h.resources.For(c).PostReview(ctx, &entity.ReviewInput{
		ProductID: c.Param("id"),
		UserID:    deliverycontext.GetSessionSubject(ctx),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusCreated, body)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("malformed request body")
	}
	if err := c.Validate(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(validator.Describe(err))
	}

	return nil
}
