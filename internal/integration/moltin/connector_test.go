package moltin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/config"
	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, handler http.Handler) *Connector {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewConnector(config.MoltinConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Url:                   srv.URL,
		},
		Currency:      "RUB",
		ImageCacheTTL: time.Minute,
	}, zap.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestGetToken_ClientCredentials(t *testing.T) {
	expires := time.Now().Add(time.Hour).Unix()

	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, tokenEndpoint, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		writeJSON(t, w, http.StatusOK, entity.TokenResponse{AccessToken: "abc", Expires: expires, ExpiresIn: 3600})
	}))

	token, err := conn.GetToken(context.Background(), "id", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.Value)
	assert.Equal(t, expires, token.ExpiresAt.Unix())
}

func TestGetToken_Unauthorized(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := conn.GetToken(context.Background(), "id", "bad")
	require.ErrorIs(t, err, entity.ErrAuth)
}

func TestListProducts_SendsBearerAndCurrency(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, productsEndpoint, r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		assert.Equal(t, "RUB", r.Header.Get(currencyHeader))

		writeJSON(t, w, http.StatusOK, entity.ProductsResponse{Data: []entity.Product{
			{ID: "p1", Name: "Лосось"},
			{ID: "p2", Name: "Форель"},
		}})
	}))

	resp, err := conn.ListProducts(context.Background(), "tkn")
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "p2", resp.Data[1].ID)
}

func TestGetProduct_NotFound(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := conn.GetProduct(context.Background(), "tkn", "missing")
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestGetFileLink_Cached(t *testing.T) {
	calls := 0
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, filesEndpoint+"/f1", r.URL.Path)
		writeJSON(t, w, http.StatusOK, entity.FileResponse{Data: entity.File{ID: "f1", Link: entity.FileLink{Href: "https://cdn/f1.jpg"}}})
	}))

	for range 3 {
		href, err := conn.GetFileLink(context.Background(), "tkn", "f1")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/f1.jpg", href)
	}
	assert.Equal(t, 1, calls)
}

func TestAddCartItem_Payload(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, cartsEndpoint+"/42/items", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req entity.AddCartItemRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "p1", req.Data.ID)
		assert.Equal(t, "cart_item", req.Data.Type)
		assert.Equal(t, 5, req.Data.Quantity)

		writeJSON(t, w, http.StatusCreated, entity.CartItemsResponse{Data: []entity.CartItem{{ID: "i1", ProductID: "p1", Quantity: 5}}})
	}))

	resp, err := conn.AddCartItem(context.Background(), "tkn", "42", "p1", 5)
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 5, resp.Data[0].Quantity)
}

func TestAddCartItem_RejectsNonPositiveQuantity(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Fail(t, "request must not be sent")
	}))

	_, err := conn.AddCartItem(context.Background(), "tkn", "42", "p1", 0)
	require.ErrorIs(t, err, entity.ErrRequest)
}

func TestRemoveCartItem(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, cartsEndpoint+"/42/items/i1", r.URL.Path)
		writeJSON(t, w, http.StatusOK, entity.CartItemsResponse{Data: []entity.CartItem{}})
	}))

	removed, err := conn.RemoveCartItem(context.Background(), "tkn", "42", "i1")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestRemoveCartItem_MissingItemIsNotRemoved(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest} {
		conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(status)
		}))

		removed, err := conn.RemoveCartItem(context.Background(), "tkn", "42", "gone")
		require.NoError(t, err, "status %d", status)
		assert.False(t, removed, "status %d", status)
	}
}

func TestRemoveCartItem_AuthFailureIsError(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	removed, err := conn.RemoveCartItem(context.Background(), "tkn", "42", "i1")
	require.ErrorIs(t, err, entity.ErrAuth)
	assert.False(t, removed)
}

func TestCreateCustomer_Conflict(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	_, err := conn.CreateCustomer(context.Background(), "tkn", "a@b.co", "a@b.co")
	require.ErrorIs(t, err, entity.ErrRequest)
}

func TestFindCustomerByEmail(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq(email,a@b.co)", r.URL.Query().Get("filter"))
		writeJSON(t, w, http.StatusOK, entity.CustomersResponse{Data: []entity.CustomerData{{ID: "c1", Email: "a@b.co"}}})
	}))

	customer, err := conn.FindCustomerByEmail(context.Background(), "tkn", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "c1", customer.ID)
}

func TestFindCustomerByEmail_Empty(t *testing.T) {
	conn := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, entity.CustomersResponse{})
	}))

	_, err := conn.FindCustomerByEmail(context.Background(), "tkn", "a@b.co")
	require.ErrorIs(t, err, entity.ErrNotFound)
}
