package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sentMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	PhotoURL  string
	Markup    *tgbotapi.InlineKeyboardMarkup
}

// fakeTransport records outgoing chat actions
type fakeTransport struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentMessage
	edited   []sentMessage
	deleted  []int
	answers  []string
	failEdit bool
	failSend bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 100}
}

func (f *fakeTransport) Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSend {
		return 0, entity.ErrTransport
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, MessageID: f.nextID, Text: text, Markup: markup})
	return f.nextID, nil
}

func (f *fakeTransport) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, MessageID: f.nextID, Text: caption, PhotoURL: photoURL, Markup: markup})
	return f.nextID, nil
}

func (f *fakeTransport) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failEdit {
		return errors.New("message to edit not found")
	}
	f.edited = append(f.edited, sentMessage{ChatID: chatID, MessageID: messageID, Text: text, Markup: markup})
	return nil
}

func (f *fakeTransport) Delete(ctx context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeTransport) lastSent() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

const testChatID int64 = 42

func callbackEvent(data string, messageID int, isPhoto bool) *Event {
	return &Event{
		ChatID:         testChatID,
		UserID:         testChatID,
		MessageID:      messageID,
		MessageIsPhoto: isPhoto,
		CallbackData:   data,
		CallbackID:     "cb-" + data,
	}
}

func textEvent(text string) *Event {
	return &Event{
		ChatID:   testChatID,
		UserID:   testChatID,
		Username: "fisher",
		Text:     text,
	}
}

func newRequest(ev *Event, currentState string) *Request {
	return &Request{
		Event: ev,
		Session: &state.Session{
			ChatID: ev.ChatID,
			State:  currentState,
			Data:   &state.StateData{Version: state.StateDataCurrentVersion},
		},
		Token: "tkn",
	}
}
