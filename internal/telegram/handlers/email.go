package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z0-9-]+$`)

// ValidEmail reports whether s looks like an email address
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// EmailHandler handles WAITING_EMAIL state: registers the customer
type EmailHandler struct {
	BaseHandler
	customers Customers
	registry  CustomerRegistry
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(customers Customers, registry CustomerRegistry, transport Transport, kb *keyboard.Builder) *EmailHandler {
	return &EmailHandler{
		BaseHandler: BaseHandler{
			stateName: state.StateWaitEmail,
			transport: transport,
			keyboard:  kb,
		},
		customers: customers,
		registry:  registry,
	}
}

// Handle validates the email and registers the chat's customer once
func (h *EmailHandler) Handle(ctx context.Context, req *Request) (string, error) {
	email := strings.TrimSpace(req.Event.Input())

	if req.Event.IsCallback() {
		h.answer(ctx, req, render.MsgAskEmail)
		return state.StateWaitEmail, nil
	}

	if !ValidEmail(email) {
		if _, err := h.transport.Send(ctx, req.Event.ChatID, render.MsgInvalidEmail, nil); err != nil {
			ctxzap.Warn(ctx, "failed to send email reprompt", zap.Error(err))
		}
		return state.StateWaitEmail, nil
	}

	customerID, err := h.register(ctx, req, email)
	if err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "customer registered", zap.String("customer_id", customerID))

	markup := h.keyboard.BackToMenuKeyboard()
	if err := h.sendScreen(ctx, req, render.EmailSaved(email), &markup); err != nil {
		return "", err
	}

	return state.StateCart, nil
}

func (h *EmailHandler) register(ctx context.Context, req *Request, email string) (string, error) {
	chatID := req.Event.ChatID

	customerID, err := h.registry.Lookup(ctx, chatID)
	if err == nil {
		return customerID, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return "", fmt.Errorf("lookup customer: %w", err)
	}

	name := req.Event.Username
	if name == "" {
		name = email
	}

	customer, err := h.customers.CreateCustomer(ctx, req.Token, email, name)
	if errors.Is(err, entity.ErrRequest) {
		// The email is already taken by a remote customer
		customer, err = h.customers.FindCustomerByEmail(ctx, req.Token, email)
	}
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}

	return h.registry.Register(ctx, chatID, customer.ID, email)
}
