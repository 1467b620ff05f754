package bot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Alex-Men-VL/sell-fish/internal/config"
	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/handlers"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	chatID int64
	text   string
}

type recordingTransport struct {
	mu      sync.Mutex
	sent    []sentMessage
	answers map[string][]string
}

func newRecordingTransport() *recordingTransport {
	return &recordingTransport{answers: make(map[string][]string)}
}

func (t *recordingTransport) Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, sentMessage{chatID: chatID, text: text})
	return len(t.sent), nil
}

func (t *recordingTransport) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	return t.Send(ctx, chatID, caption, markup)
}

func (t *recordingTransport) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	return nil
}

func (t *recordingTransport) Delete(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (t *recordingTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.answers[callbackID] = append(t.answers[callbackID], text)
	return nil
}

type fakeDispatcher struct {
	events []*handlers.Event
	err    error
	answer func(ctx context.Context, ev *handlers.Event)
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, ev *handlers.Event) error {
	d.events = append(d.events, ev)
	if d.answer != nil {
		d.answer(ctx, ev)
	}
	return d.err
}

func newTestBot(d Dispatcher, transport handlers.Transport) *Bot {
	return &Bot{
		api:        &tgbotapi.BotAPI{},
		cfg:        &config.TelegramConfig{ShutdownTimeout: 1},
		dispatcher: d,
		transport:  transport,
		logger:     zap.NewNop(),
	}
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 7,
			From:      &tgbotapi.User{ID: chatID, UserName: "buyer"},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])},
			},
		},
	}
}

func callbackUpdate(chatID int64, data string, photo bool) tgbotapi.Update {
	message := &tgbotapi.Message{MessageID: 11, Chat: &tgbotapi.Chat{ID: chatID}}
	if photo {
		message.Photo = []tgbotapi.PhotoSize{{FileID: "photo"}}
	}
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			From:    &tgbotapi.User{ID: chatID, UserName: "buyer"},
			Message: message,
			Data:    data,
		},
	}
}

func TestNewEvent_Text(t *testing.T) {
	ev, ok := NewEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: 5, UserName: "buyer"},
		Chat:      &tgbotapi.Chat{ID: 42},
		Text:      "user@example.com",
	}})
	require.True(t, ok)

	assert.Equal(t, int64(42), ev.ChatID)
	assert.Equal(t, int64(5), ev.UserID)
	assert.Equal(t, "buyer", ev.Username)
	assert.Equal(t, 3, ev.MessageID)
	assert.Equal(t, "user@example.com", ev.Input())
	assert.False(t, ev.IsCallback())
}

func TestNewEvent_StartCommandWithPayload(t *testing.T) {
	ev, ok := NewEvent(commandUpdate(42, "/start promo"))
	require.True(t, ok)
	assert.Equal(t, handlers.CommandStart, ev.Input())
}

func TestNewEvent_Callback(t *testing.T) {
	ev, ok := NewEvent(callbackUpdate(42, "product-1", true))
	require.True(t, ok)

	assert.True(t, ev.IsCallback())
	assert.Equal(t, "product-1", ev.Input())
	assert.Equal(t, "cb-1", ev.CallbackID)
	assert.Equal(t, 11, ev.MessageID)
	assert.True(t, ev.MessageIsPhoto)
}

func TestNewEvent_Ignored(t *testing.T) {
	cases := map[string]tgbotapi.Update{
		"empty":                    {},
		"callback without message": {CallbackQuery: &tgbotapi.CallbackQuery{ID: "x", Data: "menu"}},
		"message without text":     {Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}},
	}
	for name, update := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := NewEvent(update)
			assert.False(t, ok)
		})
	}
}

func TestHandleUpdate_Help(t *testing.T) {
	d := &fakeDispatcher{}
	transport := newRecordingTransport()
	b := newTestBot(d, transport)

	b.handleUpdate(context.Background(), commandUpdate(42, "/help"))

	assert.Empty(t, d.events)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, render.MsgHelp, transport.sent[0].text)
}

func TestHandleUpdate_AnswersPendingCallback(t *testing.T) {
	d := &fakeDispatcher{}
	transport := newRecordingTransport()
	b := newTestBot(d, transport)

	b.handleUpdate(context.Background(), callbackUpdate(42, "menu", false))

	require.Len(t, d.events, 1)
	assert.Equal(t, []string{""}, transport.answers["cb-1"])
}

func TestHandleUpdate_DoesNotAnswerTwice(t *testing.T) {
	transport := newRecordingTransport()
	d := &fakeDispatcher{}
	d.answer = func(ctx context.Context, ev *handlers.Event) {
		handlers.ReportError(ctx, transport, ev, errors.New("boom"))
	}
	b := newTestBot(d, transport)

	b.handleUpdate(context.Background(), callbackUpdate(42, "menu", false))

	assert.Len(t, transport.answers["cb-1"], 1)
}

func TestHandleUpdate_ReportsFailure(t *testing.T) {
	d := &fakeDispatcher{err: entity.ErrUnknownState}
	transport := newRecordingTransport()
	b := newTestBot(d, transport)

	b.handleUpdate(context.Background(), commandUpdate(42, "/start"))

	require.Len(t, d.events, 1)
	require.Len(t, transport.sent, 1)
	assert.Equal(t, int64(42), transport.sent[0].chatID)
	assert.NotEmpty(t, transport.sent[0].text)
}

func TestHandleUpdate_CallbackFailureIsToast(t *testing.T) {
	d := &fakeDispatcher{err: entity.ErrNotFound}
	transport := newRecordingTransport()
	b := newTestBot(d, transport)

	b.handleUpdate(context.Background(), callbackUpdate(42, "product-9", false))

	assert.Empty(t, transport.sent)
	require.Len(t, transport.answers["cb-1"], 1)
	assert.NotEmpty(t, transport.answers["cb-1"][0])
}

func TestWebhookHandler_QueuesUpdate(t *testing.T) {
	b := newTestBot(&fakeDispatcher{}, newRecordingTransport())
	b.webhookChan = make(chan tgbotapi.Update, 1)
	b.stopChan = make(chan struct{})

	body := `{"update_id": 10, "message": {"message_id": 1, "chat": {"id": 42}, "text": "hi"}}`
	rec := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, b.webhookChan, 1)
	update := <-b.webhookChan
	assert.Equal(t, 10, update.UpdateID)
	assert.Equal(t, "hi", update.Message.Text)
}

func TestWebhookHandler_RejectsGarbage(t *testing.T) {
	b := newTestBot(&fakeDispatcher{}, newRecordingTransport())
	b.webhookChan = make(chan tgbotapi.Update, 1)
	b.stopChan = make(chan struct{})

	rec := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, b.webhookChan)
}

func TestWebhookHandler_CancelledRequest(t *testing.T) {
	b := newTestBot(&fakeDispatcher{}, newRecordingTransport())
	// Nobody consumes the queue
	b.webhookChan = make(chan tgbotapi.Update)
	b.stopChan = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	body := `{"update_id": 11, "message": {"message_id": 1, "chat": {"id": 42}, "text": "hi"}}`
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body)).WithContext(ctx)
	rec := httptest.NewRecorder()
	b.WebhookHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "request cancelled")
}
