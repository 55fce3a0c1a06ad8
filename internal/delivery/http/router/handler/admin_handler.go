package handler

import (
	"context"
	"log/slog"
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/api"
	"storefront/internal/infra/transport"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// adminResource groups the write functions of one file-bearing resource.
type adminResource struct {
	create func(a *api.API, ctx context.Context, form *transport.Form) (entity.Body, error)
	update func(a *api.API, ctx context.Context, id string, form *transport.Form) (entity.Body, error)
	remove func(a *api.API, ctx context.Context, id string) (entity.Body, error)
}

// AdminHandler serves the dashboard writes. Routes must sit behind
// AuthMiddleware.RequireRole("admin"); the backend still authorises every call.
type AdminHandler struct {
	resources *ResourceFactory
	kinds     map[string]adminResource
	logger    *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(resources *ResourceFactory, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		resources: resources,
		logger:    logger,
		kinds: map[string]adminResource{
			"products": {
				create: (*api.API).CreateProduct,
				update: (*api.API).UpdateProduct,
				// Products are archived, never hard deleted
				remove: (*api.API).DeleteProduct,
			},
			"categories": {
				create: (*api.API).CreateCategory,
				update: (*api.API).UpdateCategory,
				remove: (*api.API).DeleteCategory,
			},
			"banners": {
				create: (*api.API).CreateBanner,
				update: (*api.API).UpdateBanner,
				remove: (*api.API).DeleteBanner,
			},
			"small-banners": {
				create: (*api.API).CreateSmallBanner,
				update: (*api.API).UpdateSmallBanner,
				remove: (*api.API).DeleteSmallBanner,
			},
			"blogs": {
				create: (*api.API).CreateBlog,
				update: (*api.API).UpdateBlog,
				remove: (*api.API).DeleteBlog,
			},
		},
	}
}

// Create forwards a multipart create for :kind.
func (h *AdminHandler) Create(c echo.Context) error {
	kind, err := h.kind(c)
	if err != nil {
		return err
	}
	form, err := formFromRequest(c)
	if err != nil {
		return err
	}

	body, err := kind.create(h.resources.For(c), c.Request().Context(), form)
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit(c, "created", "")

	return response.Body(c, http.StatusCreated, body)
}

// Update forwards a multipart update for :kind/:id.
func (h *AdminHandler) Update(c echo.Context) error {
	kind, err := h.kind(c)
	if err != nil {
		return err
	}
	form, err := formFromRequest(c)
	if err != nil {
		return err
	}

	body, err := kind.update(h.resources.For(c), c.Request().Context(), c.Param("id"), form)
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit(c, "updated", c.Param("id"))

	return response.Body(c, http.StatusOK, body)
}

// Delete removes :kind/:id.
func (h *AdminHandler) Delete(c echo.Context) error {
	kind, err := h.kind(c)
	if err != nil {
		return err
	}

	body, err := kind.remove(h.resources.For(c), c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}
	h.audit(c, "deleted", c.Param("id"))

	return response.Body(c, http.StatusOK, body)
}

func (h *AdminHandler) kind(c echo.Context) (adminResource, error) {
	kind, ok := h.kinds[c.Param("kind")]
	if !ok {
		return adminResource{}, echo.NewHTTPError(http.StatusNotFound, "unknown resource "+c.Param("kind"))
	}

	return kind, nil
}

func (h *AdminHandler) audit(c echo.Context, action, id string) {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("[Admin] Resource "+action,
		slog.String("kind", c.Param("kind")),
		slog.String("id", id),
	)
}
