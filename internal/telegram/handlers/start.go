package handlers

import (
	"context"
	"fmt"

	"github.com/Alex-Men-VL/sell-fish/internal/pkg/formatter"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// StartHandler handles START state: shows a fresh catalog menu
type StartHandler struct {
	BaseHandler
	catalog Catalog
}

// NewStartHandler creates a new start handler
func NewStartHandler(catalog Catalog, transport Transport, kb *keyboard.Builder) *StartHandler {
	return &StartHandler{
		BaseHandler: BaseHandler{
			stateName: state.StateStart,
			transport: transport,
			keyboard:  kb,
		},
		catalog: catalog,
	}
}

// Handle fetches the catalog and sends the menu as a new message, removing the previous screen
func (h *StartHandler) Handle(ctx context.Context, req *Request) (string, error) {
	products, err := h.catalog.ListProducts(ctx, req.Token)
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}

	entries := formatter.MenuEntries(products)
	markup := h.keyboard.MenuKeyboard(entries)

	ctxzap.Info(ctx, "showing catalog menu", zap.Int("products", len(entries)))

	data := req.Session.Data
	data.MenuMarkup = &markup
	data.SelectedProductID = ""

	// The previous screen stays until the new menu is delivered
	previous, _ := activeScreen(req)
	if err := h.sendScreen(ctx, req, render.MsgMenu, &markup); err != nil {
		return "", err
	}
	if previous != 0 {
		h.deleteMessage(ctx, req.Event.ChatID, previous)
	}

	h.answer(ctx, req, "")
	return state.StateMenu, nil
}
