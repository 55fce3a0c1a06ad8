package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/api"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// CatalogHandler serves the read-only catalog pages.
type CatalogHandler struct {
	resources *ResourceFactory
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(resources *ResourceFactory) *CatalogHandler {
	return &CatalogHandler{resources: resources}
}

// ProductDetail is the product page payload.
type ProductDetail struct {
	Product entity.Body     `json:"product"`
	Reviews []entity.Review `json:"reviews"`
}

// HomePage is the landing page payload.
type HomePage struct {
	Banners      entity.Body       `json:"banners"`
	SmallBanners entity.Body       `json:"smallBanners"`
	Blogs        entity.Body       `json:"blogs"`
	Categories   []entity.Category `json:"categories"`
}

// ListProducts forwards the listing filters, e.g. ?category=shoes.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	body, err := h.resources.For(c).ListProducts(c.Request().Context(), queryFromRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// GetProduct loads the product and its reviews concurrently.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id := c.Param("id")
	resources := h.resources.For(c)

	var page ProductDetail
	group, ctx := errgroup.WithContext(c.Request().Context())
	group.Go(func() error {
		product, err := resources.GetProduct(ctx, id)
		page.Product = product

		return err
	})
	group.Go(func() error {
		reviews, err := resources.ListReviews(ctx, id)
		page.Reviews = reviews

		return err
	})
	if err := group.Wait(); err != nil {
		return errors.WithStack(err)
	}

	if page.Reviews == nil {
		page.Reviews = []entity.Review{}
	}

	return response.Success(c, http.StatusOK, page, "")
}

// ListCategories returns the narrowed category options.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.resources.For(c).ListCategoryOptions(c.Request().Context(), queryFromRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "")
}

// ListBlogs forwards the blog listing.
func (h *CatalogHandler) ListBlogs(c echo.Context) error {
	body, err := h.resources.For(c).ListBlogs(c.Request().Context(), queryFromRequest(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// GetBlog returns one blog post.
func (h *CatalogHandler) GetBlog(c echo.Context) error {
	body, err := h.resources.For(c).GetBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Body(c, http.StatusOK, body)
}

// Home loads everything the landing page shows in one round trip.
func (h *CatalogHandler) Home(c echo.Context) error {
	resources := h.resources.For(c)

	var page HomePage
	group, ctx := errgroup.WithContext(c.Request().Context())
	group.Go(func() (err error) {
		page.Banners, err = resources.ListBanners(ctx, nil)

		return err
	})
	group.Go(func() (err error) {
		page.SmallBanners, err = resources.ListSmallBanners(ctx, nil)

		return err
	})
	group.Go(func() (err error) {
		page.Blogs, err = resources.ListBlogs(ctx, api.Query{"limit": api.Value("3")})

		return err
	})
	group.Go(func() (err error) {
		page.Categories, err = resources.ListCategoryOptions(ctx, nil)

		return err
	})
	if err := group.Wait(); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page, "")
}
