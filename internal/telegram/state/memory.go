package state

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
)

// MemoryStorage keeps sessions in process memory
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[int64]TelegramSession
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[int64]TelegramSession),
	}
}

func (s *MemoryStorage) Get(ctx context.Context, chatID int64) (*TelegramSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, fmt.Errorf("telegram session %d: %w", chatID, entity.ErrNotFound)
	}

	session.StateData = slices.Clone(session.StateData)
	return &session, nil
}

func (s *MemoryStorage) Set(ctx context.Context, session *TelegramSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	stored.StateData = slices.Clone(session.StateData)
	if existing, ok := s.sessions[session.ChatID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	s.sessions[session.ChatID] = stored

	return nil
}
