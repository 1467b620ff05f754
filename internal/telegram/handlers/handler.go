package handlers

import (
	"context"

	"github.com/Alex-Men-VL/sell-fish/internal/telegram/keyboard"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
)

// CommandStart restarts the dialogue from any state
const CommandStart = "/start"

// Event represents a normalized Telegram update
type Event struct {
	ChatID         int64
	UserID         int64
	Username       string
	MessageID      int
	MessageIsPhoto bool
	Text           string
	CallbackData   string
	CallbackID     string

	answered bool
}

// IsCallback reports whether the event is an inline button press
func (e *Event) IsCallback() bool {
	return e.CallbackID != ""
}

// Input returns the callback payload or the message text
func (e *Event) Input() string {
	if e.IsCallback() {
		return e.CallbackData
	}
	return e.Text
}

// Answered reports whether the callback of this event was already answered
func (e *Event) Answered() bool {
	return e.answered
}

// Request is a single dispatch of an event to a state handler
type Request struct {
	Event   *Event
	Session *state.Session
	Token   string
}

// Handler defines the interface for state-specific handlers
type Handler interface {
	// Handle processes an event for this state and returns the next state
	Handle(ctx context.Context, req *Request) (string, error)

	// GetState returns the state this handler manages
	GetState() string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	stateName string
	transport Transport
	keyboard  *keyboard.Builder
}

// GetState implements Handler
func (h *BaseHandler) GetState() string {
	return h.stateName
}

// validStates defines all valid handler states
var validStates = map[string]bool{
	state.StateStart:       true,
	state.StateMenu:        true,
	state.StateDescription: true,
	state.StateCart:        true,
	state.StateWaitEmail:   true,
}

// IsValidState checks if a state is valid for handler registration
func IsValidState(s string) bool {
	_, ok := validStates[s]
	return ok
}
