package entity

// Wire types of the Moltin (Elastic Path) commerce API.

// TokenResponse is returned by the oauth endpoint
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Expires     int64  `json:"expires"`    // absolute unix timestamp
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// FormattedPrice is a price rendered by the API
type FormattedPrice struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

// DisplayPrice groups prices with and without tax
type DisplayPrice struct {
	WithTax    FormattedPrice `json:"with_tax"`
	WithoutTax FormattedPrice `json:"without_tax"`
}

// Stock is the product inventory level
type Stock struct {
	Level        int    `json:"level"`
	Availability string `json:"availability"`
}

// ProductMeta is the meta block of a product
type ProductMeta struct {
	DisplayPrice DisplayPrice `json:"display_price"`
	Stock        Stock        `json:"stock"`
}

// RelationData is a typed reference to another resource
type RelationData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relation wraps a single relationship
type Relation struct {
	Data *RelationData `json:"data"`
}

// ProductRelationships holds product relations
type ProductRelationships struct {
	MainImage *Relation `json:"main_image,omitempty"`
}

// Product is a catalog product
type Product struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	Name          string               `json:"name"`
	Slug          string               `json:"slug,omitempty"`
	SKU           string               `json:"sku,omitempty"`
	Description   string               `json:"description"`
	Meta          ProductMeta          `json:"meta"`
	Relationships ProductRelationships `json:"relationships"`
}

// ProductsResponse is returned by the products list endpoint
type ProductsResponse struct {
	Data []Product `json:"data"`
}

// ProductResponse is returned by the single product endpoint
type ProductResponse struct {
	Data Product `json:"data"`
}

// FileLink points to a file download
type FileLink struct {
	Href string `json:"href"`
}

// File is a stored file
type File struct {
	ID       string   `json:"id"`
	FileName string   `json:"file_name,omitempty"`
	Link     FileLink `json:"link"`
}

// FileResponse is returned by the files endpoint
type FileResponse struct {
	Data File `json:"data"`
}

// CartData is a cart resource
type CartData struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// CartResponse is returned by the cart endpoint
type CartResponse struct {
	Data CartData `json:"data"`
}

// ItemPrice holds unit and extended prices of a line item
type ItemPrice struct {
	Unit  FormattedPrice `json:"unit"`
	Value FormattedPrice `json:"value"`
}

// ItemDisplayPrice groups line item prices with tax
type ItemDisplayPrice struct {
	WithTax ItemPrice `json:"with_tax"`
}

// CartItemMeta is the meta block of a line item
type CartItemMeta struct {
	DisplayPrice ItemDisplayPrice `json:"display_price"`
}

// CartItem is one line item
type CartItem struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	ProductID   string       `json:"product_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	SKU         string       `json:"sku,omitempty"`
	Quantity    int          `json:"quantity"`
	Meta        CartItemMeta `json:"meta"`
}

// CartItemsMeta is the meta block of a cart items list
type CartItemsMeta struct {
	DisplayPrice DisplayPrice `json:"display_price"`
}

// CartItemsResponse is returned by the cart items endpoints
type CartItemsResponse struct {
	Data []CartItem    `json:"data"`
	Meta CartItemsMeta `json:"meta"`
}

// AddCartItemRequest adds a product to a cart
type AddCartItemRequest struct {
	Data AddCartItemData `json:"data"`
}

// AddCartItemData is the payload of AddCartItemRequest
type AddCartItemData struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// CustomerData is a customer resource
type CustomerData struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerRequest creates a customer
type CustomerRequest struct {
	Data CustomerData `json:"data"`
}

// CustomerResponse is returned by the customer endpoints
type CustomerResponse struct {
	Data CustomerData `json:"data"`
}

// CustomersResponse is returned by the customer search endpoint
type CustomersResponse struct {
	Data []CustomerData `json:"data"`
}
