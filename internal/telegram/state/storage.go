package state

import (
	"context"
	"encoding/json"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dialogue states
const (
	StateStart       = "START"
	StateMenu        = "HANDLE_MENU"
	StateDescription = "HANDLE_DESCRIPTION"
	StateCart        = "HANDLE_CART"
	StateWaitEmail   = "WAITING_EMAIL"
)

// TelegramSession is the persisted dialogue record of one chat
type TelegramSession struct {
	ChatID    int64           `json:"chat_id"`
	State     string          `json:"state,omitempty"`
	StateData json.RawMessage `json:"state_data,omitempty"` // Telegram-specific UI state
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StateData contains telegram-specific UI state (stored in StateData JSONB)
type StateData struct {
	// Version for compatibility tracking (current version: 1)
	Version int `json:"version,omitempty"`

	// Raw text or callback payload of the last event
	LastUserInput string `json:"last_user_input,omitempty"`

	// Bot message currently shown to the user (for editing)
	ActiveMessageID      int  `json:"active_message_id,omitempty"`
	ActiveMessageIsPhoto bool `json:"active_message_is_photo,omitempty"`

	// Product under detail view
	SelectedProductID string `json:"selected_product_id,omitempty"`

	// Catalog keyboard replayed when returning to the menu
	MenuMarkup *tgbotapi.InlineKeyboardMarkup `json:"menu_markup,omitempty"`
}

const (
	// StateDataCurrentVersion is the current version of StateData
	StateDataCurrentVersion = 1
)

// Storage defines the interface for telegram session persistence
type Storage interface {
	// Get retrieves telegram session by chat ID, entity.ErrNotFound when absent
	Get(ctx context.Context, chatID int64) (*TelegramSession, error)

	// Set saves telegram session
	Set(ctx context.Context, session *TelegramSession) error
}
