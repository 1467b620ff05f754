package moltin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/config"
	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/integration/common"
	pkghttp "github.com/Alex-Men-VL/sell-fish/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	tokenEndpoint     = "/oauth/access_token"
	productsEndpoint  = "/v2/products"
	filesEndpoint     = "/v2/files"
	cartsEndpoint     = "/v2/carts"
	customersEndpoint = "/v2/customers"

	currencyHeader = "X-MOLTIN-CURRENCY"
)

// Connector talks to the Moltin commerce API
type Connector struct {
	config    config.MoltinConfig
	connector *pkghttp.Connector
	images    *cache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.MoltinConfig,
	logger *zap.Logger,
	opts ...pkghttp.HttpOpts,
) *Connector {
	opts = append(opts, pkghttp.WithDefaultHeaders(map[string]string{
		currencyHeader: cfg.Currency,
	}))

	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger, opts...),
		config:    cfg,
		images:    cache.New(cfg.ImageCacheTTL, 2*cfg.ImageCacheTTL),
		logger:    logger,
	}
}

// GetToken mints an access token with the client credentials grant
// POST /oauth/access_token
func (c *Connector) GetToken(ctx context.Context, clientID, clientSecret string) (*entity.Token, error) {
	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")

	var resp entity.TokenResponse
	if err := c.connector.DoFormRequest(ctx, http.MethodPost, tokenEndpoint, form, &resp); err != nil {
		return nil, mapError("get access token", err)
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("get access token: %w: empty token in response", entity.ErrAuth)
	}

	expiresAt := time.Unix(resp.Expires, 0)
	if resp.Expires == 0 {
		expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	return &entity.Token{
		Value:     resp.AccessToken,
		ExpiresAt: expiresAt,
	}, nil
}

// ListProducts returns the catalog
// GET /v2/products
func (c *Connector) ListProducts(ctx context.Context, token string) (*entity.ProductsResponse, error) {
	var resp entity.ProductsResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, productsEndpoint, nil, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return nil, mapError("list products", err)
	}

	ctxzap.Debug(ctx, "products loaded", zap.Int("count", len(resp.Data)))
	return &resp, nil
}

// GetProduct returns a single product
// GET /v2/products/{id}
func (c *Connector) GetProduct(ctx context.Context, token, productID string) (*entity.ProductResponse, error) {
	var resp entity.ProductResponse
	endpoint := productsEndpoint + "/" + url.PathEscape(productID)
	if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return nil, mapError("get product", err)
	}

	return &resp, nil
}

// GetFileLink resolves a file id into a download link.
// Links are cached because product images rarely change.
// GET /v2/files/{id}
func (c *Connector) GetFileLink(ctx context.Context, token, fileID string) (string, error) {
	if href, ok := c.images.Get(fileID); ok {
		return href.(string), nil
	}

	var resp entity.FileResponse
	endpoint := filesEndpoint + "/" + url.PathEscape(fileID)
	if err := c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return "", mapError("get file", err)
	}

	c.images.SetDefault(fileID, resp.Data.Link.Href)
	return resp.Data.Link.Href, nil
}

// GetOrCreateCart returns the cart with the given reference; the API creates it on first access
// GET /v2/carts/{ref}
func (c *Connector) GetOrCreateCart(ctx context.Context, token, cartRef string) (*entity.Cart, error) {
	var resp entity.CartResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, cartEndpoint(cartRef), nil, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return nil, mapError("get or create cart", err)
	}

	return &entity.Cart{ID: resp.Data.ID}, nil
}

// ListCartItems returns the cart line items with totals
// GET /v2/carts/{ref}/items
func (c *Connector) ListCartItems(ctx context.Context, token, cartRef string) (*entity.CartItemsResponse, error) {
	var resp entity.CartItemsResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, cartEndpoint(cartRef)+"/items", nil, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return nil, mapError("list cart items", err)
	}

	return &resp, nil
}

// AddCartItem puts a product into the cart
// POST /v2/carts/{ref}/items
func (c *Connector) AddCartItem(ctx context.Context, token, cartRef, productID string, quantity int) (*entity.CartItemsResponse, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add cart item: %w: quantity must be positive, got %d", entity.ErrRequest, quantity)
	}

	req := entity.AddCartItemRequest{
		Data: entity.AddCartItemData{
			ID:       productID,
			Type:     "cart_item",
			Quantity: quantity,
		},
	}

	var resp entity.CartItemsResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, cartEndpoint(cartRef)+"/items", req, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return nil, mapError("add cart item", err)
	}

	ctxzap.Info(ctx, "product added to cart",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return &resp, nil
}

// RemoveCartItem deletes a line item from the cart. A rejected or unknown item
// reports false without an error.
// DELETE /v2/carts/{ref}/items/{item_id}
func (c *Connector) RemoveCartItem(ctx context.Context, token, cartRef, itemID string) (bool, error) {
	endpoint := cartEndpoint(cartRef) + "/items/" + url.PathEscape(itemID)
	if err := c.connector.DoRequest(ctx, http.MethodDelete, endpoint, nil, nil,
		pkghttp.WithBearerToken(token),
	); err != nil {
		err = mapError("remove cart item", err)
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrRequest) {
			ctxzap.Info(ctx, "cart item not removed",
				zap.String("item_id", itemID),
				zap.Error(err),
			)
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// CreateCustomer registers a customer
// POST /v2/customers
func (c *Connector) CreateCustomer(ctx context.Context, token, email, name string) (*entity.Customer, error) {
	req := entity.CustomerRequest{
		Data: entity.CustomerData{
			Type:  "customer",
			Name:  name,
			Email: email,
		},
	}

	var resp entity.CustomerResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, customersEndpoint, req, &resp,
		pkghttp.WithBearerToken(token),
	); err != nil {
		return nil, mapError("create customer", err)
	}

	return &entity.Customer{ID: resp.Data.ID, Name: resp.Data.Name, Email: resp.Data.Email}, nil
}

// FindCustomerByEmail looks a customer up by email
// GET /v2/customers?filter=eq(email,{email})
func (c *Connector) FindCustomerByEmail(ctx context.Context, token, email string) (*entity.Customer, error) {
	var resp entity.CustomersResponse
	if err := c.connector.DoRequest(ctx, http.MethodGet, customersEndpoint, nil, &resp,
		pkghttp.WithBearerToken(token),
		pkghttp.WithQuery("filter", fmt.Sprintf("eq(email,%s)", email)),
	); err != nil {
		return nil, mapError("find customer", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("find customer: %w", entity.ErrNotFound)
	}

	found := resp.Data[0]
	return &entity.Customer{ID: found.ID, Name: found.Name, Email: found.Email}, nil
}

func cartEndpoint(cartRef string) string {
	return cartsEndpoint + "/" + url.PathEscape(cartRef)
}
