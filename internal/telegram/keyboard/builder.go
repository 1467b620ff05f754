package keyboard

import (
	"fmt"
	"strconv"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnCart = "🛒 Корзина"
	btnBack = "◀️ Назад"
	btnMenu = "📋 В меню"
	btnPay  = "💳 Оплатить"
)

// Builder creates inline keyboards
type Builder struct{}

// NewBuilder creates a keyboard builder
func NewBuilder() *Builder {
	return &Builder{}
}

// MenuKeyboard creates the catalog menu: one row per product in catalog order plus the cart button
func (b *Builder) MenuKeyboard(entries []entity.MenuEntry) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entries)+1)

	for _, entry := range entries {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(entry.Name, entry.ProductID),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnCart, CallbackCart),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// DescriptionKeyboard creates quantity buttons and the back button of the product screen
func (b *Builder) DescriptionKeyboard() tgbotapi.InlineKeyboardMarkup {
	quantityRow := make([]tgbotapi.InlineKeyboardButton, 0, len(Quantities))
	for _, qty := range Quantities {
		quantityRow = append(quantityRow,
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d кг", qty), strconv.Itoa(qty)))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		quantityRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnBack, CallbackMenu),
		),
	)
}

// CartKeyboard creates a remove button per line item, then pay and menu buttons
func (b *Builder) CartKeyboard(items []entity.CartLine) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items)+2)

	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Убрать "+item.Name, item.ID),
		))
	}

	if len(items) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnPay, CallbackPay),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnMenu, CallbackMenu),
	))

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// BackToMenuKeyboard creates a single "back to menu" button
func (b *Builder) BackToMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnMenu, CallbackMenu),
		),
	)
}
