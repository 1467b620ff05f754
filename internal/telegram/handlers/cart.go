package handlers

import (
	"context"
	"fmt"

	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// CartHandler handles HANDLE_CART state: item removal, checkout and return to the menu
type CartHandler struct {
	BaseHandler
	catalog Catalog
	cart    Cart
}

// NewCartHandler creates a new cart handler
func NewCartHandler(catalog Catalog, cart Cart, transport Transport, kb *keyboard.Builder) *CartHandler {
	return &CartHandler{
		BaseHandler: BaseHandler{
			stateName: state.StateCart,
			transport: transport,
			keyboard:  kb,
		},
		catalog: catalog,
		cart:    cart,
	}
}

// Handle dispatches cart screen buttons; any other payload is a line item to remove
func (h *CartHandler) Handle(ctx context.Context, req *Request) (string, error) {
	switch input := req.Event.Input(); input {
	case keyboard.CallbackMenu:
		if err := h.showMenu(ctx, h.catalog, req); err != nil {
			return "", err
		}
		h.answer(ctx, req, "")
		return state.StateMenu, nil

	case keyboard.CallbackPay:
		if err := h.showText(ctx, req, render.MsgAskEmail, nil); err != nil {
			return "", err
		}
		h.answer(ctx, req, "")
		return state.StateWaitEmail, nil

	default:
		toast, err := h.removeItem(ctx, req, input)
		if err != nil {
			return "", err
		}
		h.answer(ctx, req, toast)
		return state.StateCart, nil
	}
}

func (h *CartHandler) removeItem(ctx context.Context, req *Request, itemID string) (string, error) {
	removed, err := h.cart.RemoveCartItem(ctx, req.Token, cartRef(req.Event.ChatID), itemID)
	if err != nil {
		return "", fmt.Errorf("remove cart item: %w", err)
	}

	ctxzap.Info(ctx, "cart item removal",
		zap.String("item_id", itemID),
		zap.Bool("removed", removed),
	)

	if err := h.showCart(ctx, h.cart, req); err != nil {
		return "", err
	}

	if removed {
		return render.MsgItemRemoved, nil
	}
	return render.MsgItemNotRemoved, nil
}
