package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront/config"
	deliveryhttp "storefront/internal/delivery/http"
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/delivery/http/router"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/transport"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginMessage = "Authentication token is required, Please Login first"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// backendCall is one request the fake backend received.
type backendCall struct {
	Method string
	Path   string
	Query  string
	Cookie string
	Body   []byte
	Header http.Header
}

// fakeBackend answers by "METHOD path" and records every call.
type fakeBackend struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	received []backendCall
}

func (b *fakeBackend) handle(route string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	route := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.received = append(b.received, backendCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Cookie: r.Header.Get("Cookie"),
		Body:   data,
		Header: r.Header.Clone(),
	})
	h, ok := b.routes[route]
	b.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route ` + route + `"}`))

		return
	}
	h(w, r)
}

func (b *fakeBackend) calls() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]backendCall(nil), b.received...)
}

// serverFixtures holds the BFF wired to a fake backend.
type serverFixtures struct {
	echo    *echo.Echo
	backend *fakeBackend
}

func createTestServer(t *testing.T) serverFixtures {
	t.Helper()

	backend := &fakeBackend{routes: make(map[string]http.HandlerFunc)}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.PublicBaseURL = srv.URL
	cfg.ApplyDefaults()
	logger := newDiscardLogger()

	inspector := auth.NewJWTInspector()
	factory, err := transport.NewServerClientFactory(cfg, transport.NewAuthPolicy(cfg), inspector, logger)
	require.NoError(t, err)
	resources := handler.NewResourceFactory(factory)

	e := deliveryhttp.NewEcho(cfg, logger, middleware.NewErrorMiddleware(logger), router.RouterParams{
		CatalogHandler: handler.NewCatalogHandler(resources),
		ShopperHandler: handler.NewShopperHandler(resources),
		AdminHandler:   handler.NewAdminHandler(resources, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(inspector, cfg),
	})

	return serverFixtures{
		echo:    e,
		backend: backend,
	}
}

func sessionToken(t *testing.T, subject string, roles ...string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
	})
	signed, err := token.SignedString([]byte("backend_only_secret_for_testing"))
	require.NoError(t, err)

	return signed
}

func (fx serverFixtures) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	fx.echo.ServeHTTP(rec, req)

	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestServer_HealthCheck(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Empty(t, fx.backend.calls())
}

func TestServer_CartRequiresSession(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/cart", nil), "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.Empty(t, fx.backend.calls())
}

func TestServer_UnreadableSessionCookie(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/wishlist", nil), "opaque-session")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "SESSION_UNREADABLE", resp.Error.Code)
	assert.Empty(t, fx.backend.calls())
}

func TestServer_GetCartForwardsCookie(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("GET /api/carts/u1", http.StatusOK, map[string]any{
		"message":   "Cart fetched",
		"cartItems": []any{map[string]any{"_id": "c1", "quantity": 2}},
	})
	token := sessionToken(t, "u1")

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/cart", nil), token)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Cart fetched", resp.Message)
	assert.Contains(t, resp.Data, "cartItems")

	calls := fx.backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "token="+token, calls[0].Cookie)
	assert.NotEmpty(t, calls[0].Header.Get("X-Request-ID"))
}

func TestServer_RequestIDReachesBackend(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		kept    bool
	}{
		{name: "client id kept", inbound: "checkout-42.a", kept: true},
		{name: "missing id minted", inbound: "", kept: false},
		{name: "unsafe id replaced", inbound: "id with spaces", kept: false},
		{name: "oversized id replaced", inbound: strings.Repeat("a", 65), kept: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestServer(t)
			fx.backend.handle("GET /api/my-list/u1", http.StatusOK, map[string]any{"items": []any{}})

			req := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			rec := fx.do(req, sessionToken(t, "u1"))
			require.Equal(t, http.StatusOK, rec.Code)

			responded := rec.Header().Get("X-Request-Id")
			if tt.kept {
				assert.Equal(t, tt.inbound, responded)
			} else {
				assert.NotEqual(t, tt.inbound, responded)
				assert.Len(t, responded, 36)
			}
			assert.Equal(t, responded, decodeResponse(t, rec).RequestID)

			calls := fx.backend.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, responded, calls[0].Header.Get("X-Request-Id"))
		})
	}
}

func TestServer_AddToCart(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("POST /api/carts/add", http.StatusCreated, map[string]any{"message": "Added to cart"})

	rec := fx.do(jsonRequest(http.MethodPost, "/api/cart", `{"productId":"p1","quantity":2}`), sessionToken(t, "u1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Added to cart", decodeResponse(t, rec).Message)

	calls := fx.backend.calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"userId":"u1","productId":"p1","quantity":2}`, string(calls[0].Body))
}

func TestServer_AddToCartValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "missing product", body: `{"quantity":1}`, wantCode: "VALIDATION_FAILED"},
		{name: "zero quantity", body: `{"productId":"p1","quantity":0}`, wantCode: "VALIDATION_FAILED"},
		{name: "malformed json", body: `{"productId":`, wantCode: "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestServer(t)

			rec := fx.do(jsonRequest(http.MethodPost, "/api/cart", tt.body), sessionToken(t, "u1"))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, rec).Error.Code)
			assert.Empty(t, fx.backend.calls())
		})
	}
}

func TestServer_UpdateAndRemoveCartItem(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("PUT /api/carts/update-cart/c1", http.StatusOK, map[string]any{"message": "Updated"})
	fx.backend.handle("DELETE /api/carts/delete-cart/c1", http.StatusOK, map[string]any{"message": "Removed"})
	token := sessionToken(t, "u1")

	rec := fx.do(jsonRequest(http.MethodPut, "/api/cart/c1", `{"quantity":3}`), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Updated", decodeResponse(t, rec).Message)

	rec = fx.do(httptest.NewRequest(http.MethodDelete, "/api/cart/c1", nil), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Removed", decodeResponse(t, rec).Message)

	calls := fx.backend.calls()
	require.Len(t, calls, 2)
	assert.JSONEq(t, `{"quantity":3}`, string(calls[0].Body))
}

func TestServer_WishList(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("GET /api/my-list/u1", http.StatusOK, map[string]any{"wishList": []any{}})
	fx.backend.handle("POST /api/my-list/add", http.StatusCreated, map[string]any{"message": "Saved"})
	fx.backend.handle("DELETE /api/my-list/w1", http.StatusOK, map[string]any{"message": "Removed"})
	token := sessionToken(t, "u1")

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/wishlist", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do(jsonRequest(http.MethodPost, "/api/wishlist", `{"productId":"p9"}`), token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = fx.do(httptest.NewRequest(http.MethodDelete, "/api/wishlist/w1", nil), token)
	assert.Equal(t, http.StatusOK, rec.Code)

	calls := fx.backend.calls()
	require.Len(t, calls, 3)
	assert.JSONEq(t, `{"userId":"u1","productId":"p9"}`, string(calls[1].Body))
}

func TestServer_PostReview(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("POST /api/reviews/post-review", http.StatusCreated, map[string]any{"message": "Thanks"})

	rec := fx.do(jsonRequest(http.MethodPost, "/api/products/p1/reviews", `{"rating":5,"comment":"great"}`), sessionToken(t, "u1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	calls := fx.backend.calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"productId":"p1","userId":"u1","rating":5,"comment":"great"}`, string(calls[0].Body))

	rec = fx.do(jsonRequest(http.MethodPost, "/api/products/p1/reviews", `{"rating":9}`), sessionToken(t, "u1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_BackendUnauthenticatedRedirects(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("GET /api/carts/u1", http.StatusUnauthorized, map[string]any{"message": loginMessage})

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/cart", nil), sessionToken(t, "u1"))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestServer_BackendErrorsMapped(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		message     string
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found keeps status and message",
			status:      http.StatusNotFound,
			message:     "Product not found",
			wantStatus:  http.StatusNotFound,
			wantCode:    "BACKEND_NOT_FOUND",
			wantMessage: "Product not found",
		},
		{
			name:        "server error becomes bad gateway",
			status:      http.StatusInternalServerError,
			message:     "db down",
			wantStatus:  http.StatusBadGateway,
			wantCode:    "BACKEND_UNAVAILABLE",
			wantMessage: "The store is temporarily unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestServer(t)
			fx.backend.handle("GET /api/blogs/b1", tt.status, map[string]any{"message": tt.message})

			rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/blogs/b1", nil), sessionToken(t, "u1"))

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestServer_ProductDetail(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("GET /api/products/p1", http.StatusOK, map[string]any{
		"product": map[string]any{"_id": "p1", "name": "Runner"},
	})
	fx.backend.handle("GET /api/reviews", http.StatusOK, map[string]any{
		"reviews": []any{map[string]any{"_id": "r1", "productId": "p1", "rating": 4}},
	})

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/products/p1", nil), sessionToken(t, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data handler.ProductDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Product, "product")
	require.Len(t, resp.Data.Reviews, 1)
	assert.Equal(t, "r1", resp.Data.Reviews[0].ID)
	assert.Len(t, fx.backend.calls(), 2)
}

func TestServer_ListProductsForwardsQuery(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("GET /api/products/all", http.StatusOK, map[string]any{"products": []any{}})

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/products?category=shoes", nil), sessionToken(t, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	calls := fx.backend.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "category=shoes", calls[0].Query)
}

func TestServer_Home(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("GET /api/banners/all", http.StatusOK, map[string]any{"banners": []any{}})
	fx.backend.handle("GET /api/small-banners/all", http.StatusOK, map[string]any{"smallBanners": []any{}})
	fx.backend.handle("GET /api/blogs/all", http.StatusOK, map[string]any{"blogs": []any{}})
	fx.backend.handle("GET /api/categories/all", http.StatusOK, map[string]any{
		"categories": []any{map[string]any{"_id": "c1", "name": "Shoes", "image": "shoes.png", "extra": true}},
	})

	rec := fx.do(httptest.NewRequest(http.MethodGet, "/api/home", nil), sessionToken(t, "u1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data handler.HomePage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Categories, 1)
	assert.Equal(t, "Shoes", resp.Data.Categories[0].Name)
	assert.Len(t, fx.backend.calls(), 4)
}

func TestServer_AdminRequiresRole(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(httptest.NewRequest(http.MethodDelete, "/api/admin/products/p1", nil), sessionToken(t, "u1", "user"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ADMIN_REQUIRED", decodeResponse(t, rec).Error.Code)
	assert.Empty(t, fx.backend.calls())
}

func TestServer_AdminArchivesProduct(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("PATCH /api/products/delete-product/p1", http.StatusOK, map[string]any{"message": "Archived"})

	rec := fx.do(httptest.NewRequest(http.MethodDelete, "/api/admin/products/p1", nil), sessionToken(t, "a1", "admin"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Archived", decodeResponse(t, rec).Message)
}

func TestServer_AdminUnknownKind(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(httptest.NewRequest(http.MethodDelete, "/api/admin/orders/o1", nil), sessionToken(t, "a1", "admin"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, fx.backend.calls())
}

func TestServer_AdminCreateBannerForwardsMultipart(t *testing.T) {
	fx := createTestServer(t)
	fx.backend.handle("POST /api/banners/create", http.StatusCreated, map[string]any{"message": "Banner created"})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Summer sale"))
	part, err := writer.CreateFormFile("image", "sale.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/banners", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	rec := fx.do(req, sessionToken(t, "a1", "admin"))
	require.Equal(t, http.StatusCreated, rec.Code)

	calls := fx.backend.calls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].Header.Get("Content-Type"), "multipart/form-data"))
	assert.Contains(t, string(calls[0].Body), "Summer sale")
	assert.Contains(t, string(calls[0].Body), "png-bytes")
	assert.Contains(t, string(calls[0].Body), `filename="sale.png"`)
}

func TestServer_AdminCreateRequiresMultipart(t *testing.T) {
	fx := createTestServer(t)

	rec := fx.do(jsonRequest(http.MethodPost, "/api/admin/blogs", `{"title":"x"}`), sessionToken(t, "a1", "admin"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeResponse(t, rec).Error.Code)
	assert.Empty(t, fx.backend.calls())
}
