// Package transport issues HTTP calls to the storefront backend with session
// credentials attached and the login redirect policy applied.
//
// Two clients share one dispatcher and differ only in their credential
// strategy: the browser client relies on a cookie jar and navigates through a
// Navigator, the server client forwards the incoming request's cookie and
// redirects through the incoming response.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	deliverycontext "storefront/internal/delivery/context"

	"github.com/pkg/errors"
)

// Client exposes the HTTP verbs over a fixed base URL.
type Client interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error)
}

// RequestOption customises a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	query  url.Values
	header http.Header
}

// WithQuery appends query parameters to the request URL.
func WithQuery(query url.Values) RequestOption {
	return func(o *requestOptions) {
		if len(query) == 0 {
			return
		}
		if o.query == nil {
			o.query = url.Values{}
		}
		for key, values := range query {
			for _, value := range values {
				o.query.Add(key, value)
			}
		}
	}
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Set(key, value)
	}
}

// Response is a completed 2xx exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrap(err, "decode response body")
	}

	return nil
}

// ErrorData is the structured error body returned by the backend.
type ErrorData struct {
	Message string `json:"message"`
}

// ResponseError is returned for every non-2xx response.
type ResponseError struct {
	Method   string
	Path     string
	Response *Response
	Data     ErrorData
}

func newResponseError(method, path string, resp *Response) *ResponseError {
	respErr := &ResponseError{
		Method:   method,
		Path:     path,
		Response: resp,
	}
	// Non JSON error bodies (proxies, HTML error pages) leave Data empty
	_ = json.Unmarshal(resp.Body, &respErr.Data)

	return respErr
}

func (e *ResponseError) Error() string {
	if e.Data.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Response.StatusCode, e.Data.Message)
	}

	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Response.StatusCode)
}

// StatusCode returns the HTTP status of the failed response.
func (e *ResponseError) StatusCode() int {
	return e.Response.StatusCode
}

// ErrorMessage returns the backend supplied message carried by err, if any.
func ErrorMessage(err error) (string, bool) {
	var respErr *ResponseError
	if !errors.As(err, &respErr) || respErr.Data.Message == "" {
		return "", false
	}

	return respErr.Data.Message, true
}

// credentialStrategy is the part that differs between execution contexts.
type credentialStrategy interface {
	// attach adds credentials to req or refuses to send it
	attach(ctx context.Context, req *http.Request) error

	// unauthenticated handles a response matched by the AuthPolicy and returns
	// the error the caller receives
	unauthenticated(ctx context.Context, respErr *ResponseError) error
}

// dispatcher builds, sends and classifies requests for both clients.
type dispatcher struct {
	name       string
	baseURL    *url.URL
	httpClient *http.Client
	policy     *AuthPolicy
	strategy   credentialStrategy
	logger     *slog.Logger
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("base URL is required")
	}

	baseURL, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "parse base URL %q", raw)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, errors.Errorf("base URL must be absolute: %q", raw)
	}

	return baseURL, nil
}

func (d *dispatcher) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return d.do(ctx, http.MethodGet, path, nil, opts)
}

func (d *dispatcher) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return d.do(ctx, http.MethodPost, path, body, opts)
}

func (d *dispatcher) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return d.do(ctx, http.MethodPut, path, body, opts)
}

func (d *dispatcher) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return d.do(ctx, http.MethodPatch, path, body, opts)
}

func (d *dispatcher) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return d.do(ctx, http.MethodDelete, path, nil, opts)
}

func (d *dispatcher) do(ctx context.Context, method, path string, body any, opts []RequestOption) (*Response, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, d.logger)

	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, d.resolve(path, options.query), payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}
	for key, values := range options.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if err := d.strategy.attach(ctx, req); err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := d.httpClient.Do(req)
	if err != nil {
		logger.Warn(d.name+" Request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err),
		)

		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s response", method, path)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}

	logger.Debug(d.name+" Request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	respErr := newResponseError(method, path, resp)
	if d.policy.IsUnauthenticated(respErr) {
		return nil, d.strategy.unauthenticated(ctx, respErr)
	}

	return nil, respErr
}

// resolve joins path onto the base URL and appends the encoded query.
func (d *dispatcher) resolve(path string, query url.Values) string {
	target := d.baseURL.String() + "/" + strings.TrimLeft(path, "/")
	if len(query) == 0 {
		return target
	}
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}

	return target + separator + query.Encode()
}

func encodeBody(body any) (io.Reader, string, error) {
	switch payload := body.(type) {
	case nil:
		return nil, "", nil
	case *Form:
		return payload.encode()
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", errors.Wrap(err, "encode request body")
		}

		return bytes.NewReader(data), "application/json", nil
	}
}
