package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
)

// Session is the decoded dialogue state of one chat
type Session struct {
	ChatID    int64
	State     string
	Data      *StateData
	CreatedAt time.Time
}

// Manager manages telegram sessions
type Manager struct {
	storage Storage
	now     func() time.Time
}

// NewManager creates a new state manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
		now:     time.Now,
	}
}

// Load returns the session of the chat, or a fresh one with an empty state
func (m *Manager) Load(ctx context.Context, chatID int64) (*Session, error) {
	record, err := m.storage.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return &Session{
				ChatID:    chatID,
				Data:      &StateData{Version: StateDataCurrentVersion},
				CreatedAt: m.now(),
			}, nil
		}
		return nil, fmt.Errorf("get telegram session from storage: %w", err)
	}

	data := &StateData{}
	if len(record.StateData) > 0 {
		if err := json.Unmarshal(record.StateData, data); err != nil {
			return nil, fmt.Errorf("unmarshal state data: %w", err)
		}
	}

	// Auto-upgrade from old versions without version field
	if data.Version == 0 {
		data.Version = StateDataCurrentVersion
	}

	return &Session{
		ChatID:    record.ChatID,
		State:     record.State,
		Data:      data,
		CreatedAt: record.CreatedAt,
	}, nil
}

// Save persists the session
func (m *Manager) Save(ctx context.Context, session *Session) error {
	data := session.Data
	if data == nil {
		data = &StateData{}
	}
	data.Version = StateDataCurrentVersion

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal state data: %w", err)
	}

	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = m.now()
	}

	record := &TelegramSession{
		ChatID:    session.ChatID,
		State:     session.State,
		StateData: jsonData,
		CreatedAt: createdAt,
		UpdatedAt: m.now(),
	}

	if err := m.storage.Set(ctx, record); err != nil {
		return fmt.Errorf("save telegram session to storage: %w", err)
	}

	return nil
}
