package port

import (
	"context"

	"github.com/rl1809/slow-inventory/internal/core/domain"
)

type InventoryRepository interface {
	// ListItems returns all items in stable seed order.
	ListItems(ctx context.Context) ([]domain.Item, error)

	// DecrementStock atomically decreases an item's stock by one and
	// returns the updated item. Fails with domain.ErrItemNotFound or
	// domain.ErrOutOfStock without mutating state.
	DecrementStock(ctx context.Context, itemID string) (domain.Item, error)

	// SeedItems replaces the store contents with the given items.
	SeedItems(ctx context.Context, items []domain.Item) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
