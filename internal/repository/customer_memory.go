package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
)

// CustomerMemoryRepository is the in-process customer registry
type CustomerMemoryRepository struct {
	mu        sync.Mutex
	customers map[int64]string
}

func NewCustomerMemoryRepository() *CustomerMemoryRepository {
	return &CustomerMemoryRepository{
		customers: make(map[int64]string),
	}
}

func (r *CustomerMemoryRepository) Lookup(ctx context.Context, chatID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customerID, ok := r.customers[chatID]
	if !ok {
		return "", fmt.Errorf("customer for chat %d: %w", chatID, entity.ErrNotFound)
	}
	return customerID, nil
}

func (r *CustomerMemoryRepository) Register(ctx context.Context, chatID int64, customerID, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.customers[chatID]; ok {
		return existing, nil
	}
	r.customers[chatID] = customerID
	return customerID, nil
}
