package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Alex-Men-VL/sell-fish/internal/pkg/formatter"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// cartRef is the remote cart reference of a chat
func cartRef(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// answer acknowledges the pressed button; no-op for text messages
func (h *BaseHandler) answer(ctx context.Context, req *Request, text string) {
	ev := req.Event
	if !ev.IsCallback() || ev.answered {
		return
	}
	ev.answered = true

	if err := h.transport.AnswerCallback(ctx, ev.CallbackID, text); err != nil {
		ctxzap.Warn(ctx, "failed to answer callback", zap.Error(err))
	}
}

// activeScreen returns the message the user interacts with: the pressed button's message or the last bot screen
func activeScreen(req *Request) (int, bool) {
	if req.Event.IsCallback() && req.Event.MessageID != 0 {
		return req.Event.MessageID, req.Event.MessageIsPhoto
	}
	return req.Session.Data.ActiveMessageID, req.Session.Data.ActiveMessageIsPhoto
}

// dropScreen deletes the active screen, ignoring failures
func (h *BaseHandler) dropScreen(ctx context.Context, req *Request) {
	messageID, _ := activeScreen(req)
	if messageID == 0 {
		return
	}

	h.deleteMessage(ctx, req.Event.ChatID, messageID)
	req.Session.Data.ActiveMessageID = 0
	req.Session.Data.ActiveMessageIsPhoto = false
}

// deleteMessage removes a bot message, ignoring failures
func (h *BaseHandler) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if err := h.transport.Delete(ctx, chatID, messageID); err != nil {
		ctxzap.Debug(ctx, "failed to delete previous screen",
			zap.Error(err),
			zap.Int("message_id", messageID),
		)
	}
}

// showText renders a text screen over the active one. Photos cannot become text, so they are replaced.
func (h *BaseHandler) showText(ctx context.Context, req *Request, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	data := req.Session.Data
	chatID := req.Event.ChatID

	messageID, isPhoto := activeScreen(req)
	if messageID != 0 && !isPhoto {
		err := h.transport.Edit(ctx, chatID, messageID, text, markup)
		if err == nil {
			data.ActiveMessageID = messageID
			data.ActiveMessageIsPhoto = false
			return nil
		}
		ctxzap.Debug(ctx, "failed to edit screen, sending a new one",
			zap.Error(err),
			zap.Int("message_id", messageID),
		)
	}

	h.dropScreen(ctx, req)
	return h.sendScreen(ctx, req, text, markup)
}

// sendScreen sends a new text screen and makes it active
func (h *BaseHandler) sendScreen(ctx context.Context, req *Request, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	sentID, err := h.transport.Send(ctx, req.Event.ChatID, text, markup)
	if err != nil {
		return fmt.Errorf("send screen: %w", err)
	}

	req.Session.Data.ActiveMessageID = sentID
	req.Session.Data.ActiveMessageIsPhoto = false
	return nil
}

// showPhoto replaces the active screen with a photo screen
func (h *BaseHandler) showPhoto(ctx context.Context, req *Request, photoURL, caption string, markup *tgbotapi.InlineKeyboardMarkup) error {
	h.dropScreen(ctx, req)

	sentID, err := h.transport.SendPhoto(ctx, req.Event.ChatID, photoURL, caption, markup)
	if err != nil {
		return fmt.Errorf("send photo screen: %w", err)
	}

	req.Session.Data.ActiveMessageID = sentID
	req.Session.Data.ActiveMessageIsPhoto = true
	return nil
}

// menuMarkup returns the cached catalog keyboard, building and caching it when absent
func (h *BaseHandler) menuMarkup(ctx context.Context, catalog Catalog, req *Request) (*tgbotapi.InlineKeyboardMarkup, error) {
	if req.Session.Data.MenuMarkup != nil {
		return req.Session.Data.MenuMarkup, nil
	}

	products, err := catalog.ListProducts(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	markup := h.keyboard.MenuKeyboard(formatter.MenuEntries(products))
	req.Session.Data.MenuMarkup = &markup
	return &markup, nil
}

// showMenu renders the cached menu over the active screen
func (h *BaseHandler) showMenu(ctx context.Context, catalog Catalog, req *Request) error {
	markup, err := h.menuMarkup(ctx, catalog, req)
	if err != nil {
		return err
	}

	req.Session.Data.SelectedProductID = ""
	return h.showText(ctx, req, render.MsgMenu, markup)
}

// showCart fetches the cart and renders it over the active screen
func (h *BaseHandler) showCart(ctx context.Context, cart Cart, req *Request) error {
	items, err := cart.ListCartItems(ctx, req.Token, cartRef(req.Event.ChatID))
	if err != nil {
		return fmt.Errorf("list cart items: %w", err)
	}

	description := formatter.FormatCart(items)
	markup := h.keyboard.CartKeyboard(description.Items)
	return h.showText(ctx, req, render.CartText(description), &markup)
}
