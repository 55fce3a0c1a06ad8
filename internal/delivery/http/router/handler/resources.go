// Package handler contains the HTTP handlers for the storefront BFF.
package handler

import (
	"bytes"
	"io"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/api"
	"storefront/internal/infra/transport"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ResourceFactory builds the per-request resource API. Each incoming request
// gets its own server client so cookies never cross requests.
type ResourceFactory struct {
	clients *transport.ServerClientFactory
}

// NewResourceFactory is the constructor for ResourceFactory, injected by Fx.
func NewResourceFactory(clients *transport.ServerClientFactory) *ResourceFactory {
	return &ResourceFactory{clients: clients}
}

// For returns the API bound to c's session cookie and response.
func (f *ResourceFactory) For(c echo.Context) *api.API {
	return api.New(f.clients.ForRequest(c))
}

// queryFromRequest forwards the request's query parameters. A parameter
// present with an empty value is forwarded as "".
func queryFromRequest(c echo.Context) api.Query {
	q := api.Query{}
	for key, values := range c.QueryParams() {
		if len(values) == 0 {
			continue
		}
		q[key] = api.Value(values[0])
	}

	return q
}

// formFromRequest re-encodes an incoming multipart form for the backend.
func formFromRequest(c echo.Context) (*transport.Form, error) {
	multipartForm, err := c.MultipartForm()
	if err != nil {
		return nil, domainerrors.ErrInvalidInput.WithDetails("expected multipart form data")
	}

	form := transport.NewForm()
	for name, values := range multipartForm.Value {
		for _, value := range values {
			form.Set(name, value)
		}
	}

	for field, headers := range multipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return nil, errors.Wrapf(err, "open upload %q", header.Filename)
			}
			content, err := io.ReadAll(file)
			_ = file.Close()
			if err != nil {
				return nil, errors.Wrapf(err, "read upload %q", header.Filename)
			}

			form.AddFile(transport.FormFile{
				Field:       field,
				Filename:    header.Filename,
				ContentType: header.Header.Get(echo.HeaderContentType),
				Content:     bytes.NewReader(content),
			})
		}
	}

	return form, nil
}
