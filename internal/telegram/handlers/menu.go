package handlers

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Alex-Men-VL/sell-fish/internal/pkg/formatter"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Telegram rejects photo captions longer than this
const maxCaptionLength = 1024

// MenuHandler handles HANDLE_MENU state: product or cart selection
type MenuHandler struct {
	BaseHandler
	catalog Catalog
	cart    Cart
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(catalog Catalog, cart Cart, transport Transport, kb *keyboard.Builder) *MenuHandler {
	return &MenuHandler{
		BaseHandler: BaseHandler{
			stateName: state.StateMenu,
			transport: transport,
			keyboard:  kb,
		},
		catalog: catalog,
		cart:    cart,
	}
}

// Handle opens the cart or the selected product
func (h *MenuHandler) Handle(ctx context.Context, req *Request) (string, error) {
	input := req.Event.Input()

	if input == keyboard.CallbackCart {
		if err := h.showCart(ctx, h.cart, req); err != nil {
			return "", err
		}
		h.answer(ctx, req, "")
		return state.StateCart, nil
	}

	if err := h.showProduct(ctx, req, input); err != nil {
		return "", err
	}

	h.answer(ctx, req, "")
	return state.StateDescription, nil
}

func (h *MenuHandler) showProduct(ctx context.Context, req *Request, productID string) error {
	product, err := h.catalog.GetProduct(ctx, req.Token, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	description := formatter.FormatProduct(product)
	text := render.ProductText(description)
	markup := h.keyboard.DescriptionKeyboard()

	ctxzap.Info(ctx, "showing product",
		zap.String("product_id", description.ID),
		zap.Bool("has_image", description.ImageID != ""),
	)

	req.Session.Data.SelectedProductID = description.ID

	if description.ImageID != "" && utf8.RuneCountInString(text) > maxCaptionLength {
		ctxzap.Debug(ctx, "product text exceeds caption limit, showing text",
			zap.String("image_id", description.ImageID),
			zap.Int("length", utf8.RuneCountInString(text)),
		)
		return h.showText(ctx, req, text, &markup)
	}

	if description.ImageID != "" {
		href, err := h.catalog.GetFileLink(ctx, req.Token, description.ImageID)
		switch {
		case err == nil:
			return h.showPhoto(ctx, req, href, text, &markup)
		case errors.Is(err, context.Canceled):
			return fmt.Errorf("get product image: %w", err)
		default:
			ctxzap.Warn(ctx, "product image unavailable, showing text",
				zap.Error(err),
				zap.String("image_id", description.ImageID),
			)
		}
	}

	return h.showText(ctx, req, text, &markup)
}
