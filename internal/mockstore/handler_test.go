package mockstore

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/qkart/qkart/internal/api"
	"github.com/qkart/qkart/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(NewStore(SeedCatalog()), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": password}
	resp := doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	login := decodeBody[loginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func Test_Handler_Products(t *testing.T) {
	// given
	server := newTestServer(t)
	// when
	resp := doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/products", "", nil)
	// then
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	products := decodeBody[[]api.Product](t, resp)
	assert.Len(t, products, len(SeedCatalog()))
}

func Test_Handler_Search(t *testing.T) {
	server := newTestServer(t)

	t.Run("Matches by name or category, case-insensitive", func(t *testing.T) {
		// when
		resp := doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/products/search?value=PHONE", "", nil)
		// then
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		products := decodeBody[[]api.Product](t, resp)
		require.Len(t, products, 2)
		assert.Equal(t, "iPhone XR", products[0].Name)
		assert.Equal(t, "OnePlus 6", products[1].Name)
	})

	t.Run("Zero matches is a 404 with the canonical message", func(t *testing.T) {
		// when
		resp := doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/products/search?value=xyzzy", "", nil)
		// then
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[web.ErrorBody](t, resp)
		assert.False(t, body.Success)
		assert.Equal(t, "Products not found", body.Message)
	})
}

func Test_Handler_Auth(t *testing.T) {
	t.Run("Register then login round-trips", func(t *testing.T) {
		// given
		server := newTestServer(t)
		// when / then
		token := registerAndLogin(t, server, "criodo", "criodo123")
		assert.NotEmpty(t, token)
	})

	t.Run("Duplicate registration is rejected", func(t *testing.T) {
		// given
		server := newTestServer(t)
		registerAndLogin(t, server, "criodo", "criodo123")
		// when
		resp := doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/auth/register", "",
			map[string]string{"username": "criodo", "password": "other1"})
		// then
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[web.ErrorBody](t, resp)
		assert.Equal(t, "Username is already taken", body.Message)
	})

	t.Run("Short credentials are rejected before the store", func(t *testing.T) {
		// given
		server := newTestServer(t)
		// when
		resp := doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/auth/register", "",
			map[string]string{"username": "crio", "password": "123"})
		// then
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[web.ErrorBody](t, resp)
		assert.Equal(t, "Username and password must be at least 6 characters", body.Message)
	})

	t.Run("Wrong password and unknown user are told apart", func(t *testing.T) {
		// given
		server := newTestServer(t)
		registerAndLogin(t, server, "criodo", "criodo123")

		// when: wrong password
		resp := doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/auth/login", "",
			map[string]string{"username": "criodo", "password": "wrong1"})
		// then
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Password is incorrect", decodeBody[web.ErrorBody](t, resp).Message)

		// when: unknown user
		resp = doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/auth/login", "",
			map[string]string{"username": "nobody1", "password": "criodo123"})
		// then
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Username does not exist", decodeBody[web.ErrorBody](t, resp).Message)
	})
}

func Test_Handler_Cart(t *testing.T) {
	t.Run("Requires a bearer token", func(t *testing.T) {
		// given
		server := newTestServer(t)
		// when
		resp := doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/cart", "", nil)
		// then
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeBody[web.ErrorBody](t, resp)
		assert.Equal(t, "Protected route, Oauth2 Bearer token not found", body.Message)
	})

	t.Run("Rejects an unknown token", func(t *testing.T) {
		// given
		server := newTestServer(t)
		// when
		resp := doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/cart", "bogus", nil)
		// then
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Upsert, update and remove flow", func(t *testing.T) {
		// given
		server := newTestServer(t)
		token := registerAndLogin(t, server, "criodo", "criodo123")
		productID := SeedCatalog()[0].ID

		// when: empty cart
		resp := doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/cart", token, nil)
		// then
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeBody[[]api.CartEntry](t, resp))

		// when: first add
		resp = doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/cart", token,
			map[string]any{"productId": productID, "qty": 1})
		// then: response is the full updated cart
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []api.CartEntry{{ProductID: productID, Quantity: 1}}, decodeBody[[]api.CartEntry](t, resp))

		// when: quantity update
		resp = doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/cart", token,
			map[string]any{"productId": productID, "qty": 3})
		// then
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []api.CartEntry{{ProductID: productID, Quantity: 3}}, decodeBody[[]api.CartEntry](t, resp))

		// when: quantity zero removes the line
		resp = doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/cart", token,
			map[string]any{"productId": productID, "qty": 0})
		// then
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeBody[[]api.CartEntry](t, resp))
	})

	t.Run("Unknown product is a 404", func(t *testing.T) {
		// given
		server := newTestServer(t)
		token := registerAndLogin(t, server, "criodo", "criodo123")
		// when
		resp := doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/cart", token,
			map[string]any{"productId": "no-such-id", "qty": 1})
		// then
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[web.ErrorBody](t, resp)
		assert.Equal(t, "Product doesn't exist", body.Message)
	})

	t.Run("Carts are per user", func(t *testing.T) {
		// given
		server := newTestServer(t)
		tokenA := registerAndLogin(t, server, "userAA", "secret1")
		tokenB := registerAndLogin(t, server, "userBB", "secret2")
		productID := SeedCatalog()[1].ID
		resp := doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/v1/cart", tokenA,
			map[string]any{"productId": productID, "qty": 2})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		// when
		resp = doJSON(t, server.Client(), http.MethodGet, server.URL+"/api/v1/cart", tokenB, nil)
		// then
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, decodeBody[[]api.CartEntry](t, resp))
	})
}
