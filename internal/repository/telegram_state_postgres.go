package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/Alex-Men-VL/sell-fish/internal/telegram/state"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	getTelegramSessionQuery = `
SELECT chat_id, state, state_data, created_at, updated_at
FROM telegram_sessions
WHERE chat_id = $1`

	upsertTelegramSessionQuery = `
INSERT INTO telegram_sessions (chat_id, state, state_data, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (chat_id) DO UPDATE
SET state = EXCLUDED.state,
    state_data = EXCLUDED.state_data,
    updated_at = EXCLUDED.updated_at`
)

// TelegramSessionRepository handles telegram dialogue state persistence
type TelegramSessionRepository struct {
	db *pgxpool.Pool
}

// NewTelegramStateRepository creates a new telegram session repository
func NewTelegramStateRepository(db *pgxpool.Pool) *TelegramSessionRepository {
	return &TelegramSessionRepository{db: db}
}

// Get retrieves telegram session by chat ID
func (r *TelegramSessionRepository) Get(ctx context.Context, chatID int64) (*state.TelegramSession, error) {
	var (
		session   state.TelegramSession
		stateData []byte
	)

	err := r.db.QueryRow(ctx, getTelegramSessionQuery, chatID).Scan(
		&session.ChatID,
		&session.State,
		&stateData,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("telegram session %d: %w", chatID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("query telegram session: %w", err)
	}

	if len(stateData) > 0 {
		session.StateData = json.RawMessage(stateData)
	} else {
		session.StateData = json.RawMessage("{}")
	}

	return &session, nil
}

// Set saves telegram session
func (r *TelegramSessionRepository) Set(ctx context.Context, session *state.TelegramSession) error {
	stateData := []byte(session.StateData)
	if len(stateData) == 0 {
		stateData = []byte("{}")
	}

	_, err := r.db.Exec(ctx, upsertTelegramSessionQuery,
		session.ChatID,
		session.State,
		stateData,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert telegram session: %w", err)
	}

	return nil
}
