package entity

import "time"

// Token is a bearer credential issued by the commerce API
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the token can no longer be used at the given moment
func (t *Token) Expired(now time.Time) bool {
	return t == nil || t.Value == "" || !now.Before(t.ExpiresAt)
}

// Cart is a handle of a remote cart
type Cart struct {
	ID string
}

// Customer is a remote customer record
type Customer struct {
	ID    string
	Name  string
	Email string
}

// ProductDescription is a display-ready product
type ProductDescription struct {
	ID          string
	Name        string
	Description string
	Price       string
	Stock       int
	ImageID     string
}

// CartDescription is a display-ready cart
type CartDescription struct {
	Total string
	Items []CartLine
}

// CartLine is one line item of a cart
type CartLine struct {
	ID          string
	ProductID   string
	Name        string
	Description string
	Quantity    int
	UnitPrice   string
	ValuePrice  string
}

// IsEmpty reports whether the cart has no line items
func (c *CartDescription) IsEmpty() bool {
	return len(c.Items) == 0
}

// MenuEntry is a selectable product of the catalog menu
type MenuEntry struct {
	Name      string
	ProductID string
}
