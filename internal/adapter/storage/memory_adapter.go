package storage

import (
	"context"
	"sync"

	"github.com/rl1809/slow-inventory/internal/core/domain"
)

// MemoryAdapter is the default store: a seeded in-memory map. The mutex
// makes DecrementStock a single check-and-write, so concurrent claims
// against the same item cannot over-decrement.
type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
	order []string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		items: make(map[string]*domain.Item),
	}
}

func (m *MemoryAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.Item, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, *m.items[id])
	}
	return items, nil
}

func (m *MemoryAdapter) DecrementStock(ctx context.Context, itemID string) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	if item.Stock <= 0 {
		return domain.Item{}, domain.ErrOutOfStock
	}

	item.Stock--
	return *item, nil
}

func (m *MemoryAdapter) SeedItems(ctx context.Context, items []domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*domain.Item, len(items))
	m.order = make([]string, 0, len(items))
	for _, item := range items {
		it := item
		m.items[it.ID] = &it
		m.order = append(m.order, it.ID)
	}
	return nil
}

func (m *MemoryAdapter) Ping(ctx context.Context) error {
	return nil
}
