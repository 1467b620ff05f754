package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	getCustomerQuery = `SELECT customer_id FROM customers WHERE chat_id = $1`

	insertCustomerQuery = `
INSERT INTO customers (chat_id, customer_id, email)
VALUES ($1, $2, $3)
ON CONFLICT (chat_id) DO NOTHING`
)

// CustomerRepository maps chat ids to remote customer ids
type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Lookup returns the customer id registered for the chat
func (r *CustomerRepository) Lookup(ctx context.Context, chatID int64) (string, error) {
	var customerID string
	if err := r.db.QueryRow(ctx, getCustomerQuery, chatID).Scan(&customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("customer for chat %d: %w", chatID, entity.ErrNotFound)
		}
		return "", fmt.Errorf("query customer: %w", err)
	}

	return customerID, nil
}

// Register stores the customer id for the chat unless one is already registered.
// Returns the id that ends up registered.
func (r *CustomerRepository) Register(ctx context.Context, chatID int64, customerID, email string) (string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, insertCustomerQuery, chatID, customerID, email); err != nil {
		return "", fmt.Errorf("insert customer: %w", err)
	}

	var registered string
	if err := tx.QueryRow(ctx, getCustomerQuery, chatID).Scan(&registered); err != nil {
		return "", fmt.Errorf("query customer: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	return registered, nil
}
