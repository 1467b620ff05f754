package handlers

import (
	"context"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Catalog reads products of the remote shop
type Catalog interface {
	ListProducts(ctx context.Context, token string) (*entity.ProductsResponse, error)
	GetProduct(ctx context.Context, token, productID string) (*entity.ProductResponse, error)
	GetFileLink(ctx context.Context, token, fileID string) (string, error)
}

// Cart manages the remote cart of a chat
type Cart interface {
	GetOrCreateCart(ctx context.Context, token, cartRef string) (*entity.Cart, error)
	ListCartItems(ctx context.Context, token, cartRef string) (*entity.CartItemsResponse, error)
	AddCartItem(ctx context.Context, token, cartRef, productID string, quantity int) (*entity.CartItemsResponse, error)
	RemoveCartItem(ctx context.Context, token, cartRef, itemID string) (bool, error)
}

// Customers manages remote customer records
type Customers interface {
	CreateCustomer(ctx context.Context, token, email, name string) (*entity.Customer, error)
	FindCustomerByEmail(ctx context.Context, token, email string) (*entity.Customer, error)
}

// CustomerRegistry maps chats to remote customers
type CustomerRegistry interface {
	// Lookup returns entity.ErrNotFound when the chat has no customer yet
	Lookup(ctx context.Context, chatID int64) (string, error)

	// Register keeps the first customer id registered for the chat and returns it
	Register(ctx context.Context, chatID int64, customerID, email string) (string, error)
}

// Transport issues outgoing chat actions. A nil markup removes the inline keyboard.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error)
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tgbotapi.InlineKeyboardMarkup) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
