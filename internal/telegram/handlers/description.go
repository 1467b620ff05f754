package handlers

import (
	"context"
	"fmt"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DescriptionHandler handles HANDLE_DESCRIPTION state: quantity selection for the selected product
type DescriptionHandler struct {
	BaseHandler
	catalog Catalog
	cart    Cart
}

// NewDescriptionHandler creates a new description handler
func NewDescriptionHandler(catalog Catalog, cart Cart, transport Transport, kb *keyboard.Builder) *DescriptionHandler {
	return &DescriptionHandler{
		BaseHandler: BaseHandler{
			stateName: state.StateDescription,
			transport: transport,
			keyboard:  kb,
		},
		catalog: catalog,
		cart:    cart,
	}
}

// Handle returns to the menu or adds the selected product to the cart
func (h *DescriptionHandler) Handle(ctx context.Context, req *Request) (string, error) {
	input := req.Event.Input()

	if input == keyboard.CallbackMenu {
		if err := h.showMenu(ctx, h.catalog, req); err != nil {
			return "", err
		}
		h.answer(ctx, req, "")
		return state.StateMenu, nil
	}

	quantity, ok := keyboard.ParseQuantity(input)
	if !ok {
		h.reprompt(ctx, req)
		return state.StateDescription, nil
	}

	productID := req.Session.Data.SelectedProductID
	if productID == "" {
		return "", fmt.Errorf("no product selected: %w", entity.ErrUnknownState)
	}

	h.answer(ctx, req, h.addToCart(ctx, req, productID, quantity))
	return state.StateDescription, nil
}

// addToCart returns the acknowledgment text; cart failures are reported to the user, not to the dispatcher
func (h *DescriptionHandler) addToCart(ctx context.Context, req *Request, productID string, quantity int) string {
	ref := cartRef(req.Event.ChatID)

	if _, err := h.cart.GetOrCreateCart(ctx, req.Token, ref); err != nil {
		ctxzap.Warn(ctx, "failed to get cart", zap.Error(err))
		return render.MsgAddFailed
	}

	if _, err := h.cart.AddCartItem(ctx, req.Token, ref, productID, quantity); err != nil {
		ctxzap.Warn(ctx, "failed to add product to cart",
			zap.Error(err),
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
		)
		return render.MsgAddFailed
	}

	return render.AddedToCart(quantity)
}

func (h *DescriptionHandler) reprompt(ctx context.Context, req *Request) {
	if req.Event.IsCallback() {
		h.answer(ctx, req, render.MsgChooseQuantity)
		return
	}

	if _, err := h.transport.Send(ctx, req.Event.ChatID, render.MsgChooseQuantity, nil); err != nil {
		ctxzap.Warn(ctx, "failed to send reprompt", zap.Error(err))
	}
}
