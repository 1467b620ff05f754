package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/pkg/logger"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/handlers"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// TokenProvider hands out a valid commerce API token
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Dispatcher routes events to the handler of the chat's current dialogue state
type Dispatcher struct {
	handlers map[string]handlers.Handler
	sessions *state.Manager
	tokens   TokenProvider
	locks    *keyedMutex
}

// New creates a dispatcher. It panics on a handler registered for an unknown or duplicate state.
func New(sessions *state.Manager, tokens TokenProvider, hs ...handlers.Handler) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]handlers.Handler, len(hs)),
		sessions: sessions,
		tokens:   tokens,
		locks:    newKeyedMutex(),
	}

	for _, h := range hs {
		name := h.GetState()
		if !handlers.IsValidState(name) {
			panic(fmt.Sprintf("invalid handler state: %s", name))
		}
		if _, exists := d.handlers[name]; exists {
			panic(fmt.Sprintf("duplicate handler for state: %s", name))
		}
		d.handlers[name] = h
	}

	return d
}

// Dispatch processes one event. On failure the session is left as it was before the event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *handlers.Event) error {
	unlock := d.locks.Lock(ev.ChatID)
	defer unlock()

	session, err := d.sessions.Load(ctx, ev.ChatID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	token, err := d.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("ensure access token: %w", err)
	}

	stateName := session.State
	if !ev.IsCallback() && strings.TrimSpace(ev.Text) == handlers.CommandStart {
		stateName = state.StateStart
	}

	handler, ok := d.handlers[stateName]
	if !ok {
		return fmt.Errorf("dispatch state %q: %w", stateName, entity.ErrUnknownState)
	}

	ctx = logger.WithAction(ctx, stateName)
	session.Data.LastUserInput = ev.Input()

	next, err := handler.Handle(ctx, &handlers.Request{
		Event:   ev,
		Session: session,
		Token:   token,
	})
	if err != nil {
		if errors.Is(err, entity.ErrAuth) {
			d.tokens.Invalidate()
		}
		return fmt.Errorf("handle %s: %w", stateName, err)
	}

	previous := session.State
	session.State = next
	if err := d.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if previous != next {
		ctxzap.Info(ctx, "dialogue state changed",
			zap.String("from", previous),
			zap.String("to", next),
		)
	}

	return nil
}
