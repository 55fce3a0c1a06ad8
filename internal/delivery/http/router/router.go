// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CatalogHandler *handler.CatalogHandler
	ShopperHandler *handler.ShopperHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	catalogHandler *handler.CatalogHandler
	shopperHandler *handler.ShopperHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		catalogHandler: params.CatalogHandler,
		shopperHandler: params.ShopperHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	apiGroup := e.Group("/api")
	apiGroup.Use(r.authMiddleware.Identify)

	// Catalog pages. The backend still needs the session cookie for these.
	{
		apiGroup.GET("/home", r.catalogHandler.Home)
		apiGroup.GET("/products", r.catalogHandler.ListProducts)
		apiGroup.GET("/products/:id", r.catalogHandler.GetProduct)
		apiGroup.GET("/categories", r.catalogHandler.ListCategories)
		apiGroup.GET("/blogs", r.catalogHandler.ListBlogs)
		apiGroup.GET("/blogs/:id", r.catalogHandler.GetBlog)
	}

	// Shopper routes that require a signed-in session. Route-level middleware
	// keeps unknown /api paths out of the login redirect.
	signedIn := r.authMiddleware.RequireSubject
	{
		apiGroup.GET("/cart", r.shopperHandler.GetCart, signedIn)
		apiGroup.POST("/cart", r.shopperHandler.AddToCart, signedIn)
		apiGroup.PUT("/cart/:id", r.shopperHandler.UpdateCartItem, signedIn)
		apiGroup.DELETE("/cart/:id", r.shopperHandler.RemoveCartItem, signedIn)

		apiGroup.GET("/wishlist", r.shopperHandler.GetWishList, signedIn)
		apiGroup.POST("/wishlist", r.shopperHandler.AddToWishList, signedIn)
		apiGroup.DELETE("/wishlist/:id", r.shopperHandler.RemoveFromWishList, signedIn)

		apiGroup.POST("/products/:id/reviews", r.shopperHandler.PostReview, signedIn)
	}

	// Dashboard routes that require the "admin" role
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(r.authMiddleware.RequireSubject)
	adminGroup.Use(r.authMiddleware.RequireRole("admin"))
	{
		adminGroup.POST("/:kind", r.adminHandler.Create)
		adminGroup.PUT("/:kind/:id", r.adminHandler.Update)
		adminGroup.DELETE("/:kind/:id", r.adminHandler.Delete)
	}
}
