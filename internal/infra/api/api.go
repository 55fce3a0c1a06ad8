// Package api maps storefront resources onto backend REST calls. Every
// function issues exactly one call through the transport and returns the
// decoded body; errors are returned exactly as the transport produced them.
package api

import (
	"context"
	"net/url"

	"storefront/internal/domain/entity"
	"storefront/internal/infra/transport"
)

// API exposes the resource access functions over one transport client.
type API struct {
	client transport.Client
}

// New creates an API over client. Use a browser client in browser contexts
// and a per-request server client in server contexts.
func New(client transport.Client) *API {
	return &API{client: client}
}

// Query holds optional list filters. A nil value means "unset" and is left
// out of the URL; every other value, including "", is sent.
type Query map[string]*string

// Value returns a pointer to v for building a Query literal.
func Value(v string) *string {
	return &v
}

// Values converts q to url.Values, dropping unset entries.
func (q Query) Values() url.Values {
	values := url.Values{}
	for key, value := range q {
		if value == nil {
			continue
		}
		values.Set(key, *value)
	}

	return values
}

// BuildURL appends q to path. An empty or fully unset query leaves path untouched.
func BuildURL(path string, q Query) string {
	values := q.Values()
	if len(values) == 0 {
		return path
	}

	return path + "?" + values.Encode()
}

// pathID escapes an identifier for use as a single path segment.
func pathID(id string) string {
	return url.PathEscape(id)
}

// body decodes a response into the pass-through Body. Any JSON value is
// accepted; an empty response yields the zero Body.
func body(resp *transport.Response) (entity.Body, error) {
	var out entity.Body
	if err := resp.Decode(&out); err != nil {
		return entity.Body{}, err
	}

	return out, nil
}

func (a *API) get(ctx context.Context, path string) (entity.Body, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return entity.Body{}, err
	}

	return body(resp)
}

func (a *API) post(ctx context.Context, path string, payload any) (entity.Body, error) {
	resp, err := a.client.Post(ctx, path, payload)
	if err != nil {
		return entity.Body{}, err
	}

	return body(resp)
}

func (a *API) put(ctx context.Context, path string, payload any) (entity.Body, error) {
	resp, err := a.client.Put(ctx, path, payload)
	if err != nil {
		return entity.Body{}, err
	}

	return body(resp)
}

func (a *API) patch(ctx context.Context, path string, payload any) (entity.Body, error) {
	resp, err := a.client.Patch(ctx, path, payload)
	if err != nil {
		return entity.Body{}, err
	}

	return body(resp)
}

func (a *API) delete(ctx context.Context, path string) (entity.Body, error) {
	resp, err := a.client.Delete(ctx, path)
	if err != nil {
		return entity.Body{}, err
	}

	return body(resp)
}

// resource holds the path conventions shared by the CRUD resources:
// /api/{plural}/all, /{id}, /create, /update-{singular}/{id}, /delete-{singular}/{id}.
type resource struct {
	plural   string
	singular string
}

func (r resource) all() string {
	return "/api/" + r.plural + "/all"
}

func (r resource) one(id string) string {
	return "/api/" + r.plural + "/" + pathID(id)
}

func (r resource) create() string {
	return "/api/" + r.plural + "/create"
}

func (r resource) update(id string) string {
	return "/api/" + r.plural + "/update-" + r.singular + "/" + pathID(id)
}

func (r resource) remove(id string) string {
	return "/api/" + r.plural + "/delete-" + r.singular + "/" + pathID(id)
}
