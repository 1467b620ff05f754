package moltin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockTokenTTL = time.Hour

// MockConnector - in-memory магазин для локального запуска и тестов
type MockConnector struct {
	mu        sync.Mutex
	currency  string
	products  []entity.Product
	files     map[string]string
	carts     map[string][]entity.CartItem
	customers map[string]entity.CustomerData
	logger    *zap.Logger
}

func NewMockConnector(currency string, logger *zap.Logger) *MockConnector {
	m := &MockConnector{
		currency:  currency,
		files:     make(map[string]string),
		carts:     make(map[string][]entity.CartItem),
		customers: make(map[string]entity.CustomerData),
		logger:    logger,
	}

	m.seed()
	return m
}

func (m *MockConnector) seed() {
	catalog := []struct {
		name, description string
		cents             int64
		stock             int
	}{
		{"Лосось", "Охлажденный атлантический лосось, цена за кг", 1990, 40},
		{"Форель", "Радужная форель, цена за кг", 1250, 25},
		{"Сельдь", "Тихоокеанская сельдь слабой соли", 490, 100},
		{"Тунец", "Стейк из желтоперого тунца", 2750, 10},
	}

	for i, item := range catalog {
		productID := fmt.Sprintf("product-%d", i+1)
		fileID := fmt.Sprintf("file-%d", i+1)
		m.files[fileID] = fmt.Sprintf("https://files.example.com/%s.jpg", fileID)

		m.products = append(m.products, entity.Product{
			ID:          productID,
			Type:        "product",
			Name:        item.name,
			Description: item.description,
			Meta: entity.ProductMeta{
				DisplayPrice: entity.DisplayPrice{
					WithTax:    m.price(item.cents),
					WithoutTax: m.price(item.cents),
				},
				Stock: entity.Stock{Level: item.stock, Availability: "in-stock"},
			},
			Relationships: entity.ProductRelationships{
				MainImage: &entity.Relation{Data: &entity.RelationData{Type: "main_image", ID: fileID}},
			},
		})
	}
}

func (m *MockConnector) price(cents int64) entity.FormattedPrice {
	return entity.FormattedPrice{
		Amount:    cents,
		Currency:  m.currency,
		Formatted: fmt.Sprintf("%d.%02d %s", cents/100, cents%100, m.currency),
	}
}

func (m *MockConnector) GetToken(ctx context.Context, clientID, clientSecret string) (*entity.Token, error) {
	ctxzap.Debug(ctx, "[MOCK] issuing access token")

	return &entity.Token{
		Value:     "mock-" + uuid.NewString(),
		ExpiresAt: time.Now().Add(mockTokenTTL),
	}, nil
}

func (m *MockConnector) ListProducts(ctx context.Context, token string) (*entity.ProductsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]entity.Product, len(m.products))
	copy(products, m.products)
	return &entity.ProductsResponse{Data: products}, nil
}

func (m *MockConnector) GetProduct(ctx context.Context, token, productID string) (*entity.ProductResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.findProduct(productID)
	if !ok {
		return nil, fmt.Errorf("get product %s: %w", productID, entity.ErrNotFound)
	}
	return &entity.ProductResponse{Data: product}, nil
}

func (m *MockConnector) GetFileLink(ctx context.Context, token, fileID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	href, ok := m.files[fileID]
	if !ok {
		return "", fmt.Errorf("get file %s: %w", fileID, entity.ErrNotFound)
	}
	return href, nil
}

func (m *MockConnector) GetOrCreateCart(ctx context.Context, token, cartRef string) (*entity.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[cartRef]; !ok {
		m.carts[cartRef] = nil
	}
	return &entity.Cart{ID: cartRef}, nil
}

func (m *MockConnector) ListCartItems(ctx context.Context, token, cartRef string) (*entity.CartItemsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cartResponse(cartRef), nil
}

func (m *MockConnector) AddCartItem(ctx context.Context, token, cartRef, productID string, quantity int) (*entity.CartItemsResponse, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("add cart item: %w: quantity must be positive, got %d", entity.ErrRequest, quantity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.findProduct(productID)
	if !ok {
		return nil, fmt.Errorf("add cart item %s: %w", productID, entity.ErrNotFound)
	}

	items := m.carts[cartRef]
	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}

	if !merged {
		items = append(items, entity.CartItem{
			ID:          uuid.NewString(),
			Type:        "cart_item",
			ProductID:   product.ID,
			Name:        product.Name,
			Description: product.Description,
			Quantity:    quantity,
		})
	}
	m.carts[cartRef] = items

	ctxzap.Info(ctx, "[MOCK] product added to cart",
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return m.cartResponse(cartRef), nil
}

func (m *MockConnector) RemoveCartItem(ctx context.Context, token, cartRef, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[cartRef]
	for i := range items {
		if items[i].ID == itemID {
			m.carts[cartRef] = append(items[:i], items[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (m *MockConnector) CreateCustomer(ctx context.Context, token, email, name string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.customers[email]; exists {
		return nil, fmt.Errorf("create customer: %w: email %s already registered", entity.ErrRequest, email)
	}

	data := entity.CustomerData{
		ID:    uuid.NewString(),
		Type:  "customer",
		Name:  name,
		Email: email,
	}
	m.customers[email] = data

	ctxzap.Info(ctx, "[MOCK] customer created", zap.String("customer_id", data.ID))
	return &entity.Customer{ID: data.ID, Name: data.Name, Email: data.Email}, nil
}

func (m *MockConnector) FindCustomerByEmail(ctx context.Context, token, email string) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.customers[email]
	if !ok {
		return nil, fmt.Errorf("find customer: %w", entity.ErrNotFound)
	}
	return &entity.Customer{ID: data.ID, Name: data.Name, Email: data.Email}, nil
}

func (m *MockConnector) findProduct(productID string) (entity.Product, bool) {
	for _, p := range m.products {
		if p.ID == productID {
			return p, true
		}
	}
	return entity.Product{}, false
}

// cartResponse пересчитывает цены позиций и итог корзины; вызывать под m.mu
func (m *MockConnector) cartResponse(cartRef string) *entity.CartItemsResponse {
	items := m.carts[cartRef]
	resp := &entity.CartItemsResponse{Data: make([]entity.CartItem, 0, len(items))}

	var total int64
	for _, item := range items {
		product, _ := m.findProduct(item.ProductID)
		unit := product.Meta.DisplayPrice.WithTax.Amount
		value := unit * int64(item.Quantity)
		total += value

		item.Meta.DisplayPrice.WithTax = entity.ItemPrice{
			Unit:  m.price(unit),
			Value: m.price(value),
		}
		resp.Data = append(resp.Data, item)
	}

	resp.Meta.DisplayPrice = entity.DisplayPrice{
		WithTax:    m.price(total),
		WithoutTax: m.price(total),
	}
	return resp
}
