package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rl1809/slow-inventory/internal/core/domain"
)

func seededMemoryAdapter(t *testing.T, items ...domain.Item) *MemoryAdapter {
	t.Helper()
	m := NewMemoryAdapter()
	if err := m.SeedItems(context.Background(), items); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return m
}

func TestMemoryListItems_StableOrder(t *testing.T) {
	m := seededMemoryAdapter(t,
		domain.Item{ID: "b", Name: "B", Stock: 1},
		domain.Item{ID: "a", Name: "A", Stock: 2},
	)

	for i := 0; i < 3; i++ {
		items, err := m.ListItems(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
			t.Fatalf("expected seed order [b a], got %v", items)
		}
	}
}

func TestMemoryDecrementStock_Success(t *testing.T) {
	m := seededMemoryAdapter(t, domain.Item{ID: "a", Name: "A", Stock: 5})

	item, err := m.DecrementStock(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Stock != 4 {
		t.Errorf("expected stock 4, got %d", item.Stock)
	}

	items, _ := m.ListItems(context.Background())
	if items[0].Stock != 4 {
		t.Errorf("expected store stock 4, got %d", items[0].Stock)
	}
}

func TestMemoryDecrementStock_OutOfStock(t *testing.T) {
	m := seededMemoryAdapter(t, domain.Item{ID: "a", Name: "A", Stock: 0})

	_, err := m.DecrementStock(context.Background(), "a")
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got: %v", err)
	}

	items, _ := m.ListItems(context.Background())
	if items[0].Stock != 0 {
		t.Errorf("stock must stay 0, got %d", items[0].Stock)
	}
}

func TestMemoryDecrementStock_NotFound(t *testing.T) {
	m := seededMemoryAdapter(t, domain.Item{ID: "a", Name: "A", Stock: 1})

	_, err := m.DecrementStock(context.Background(), "missing")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got: %v", err)
	}
}

// The reference behavior this demo reproduces had a read-modify-write race
// that could over-decrement. Here the decrement is a single locked
// operation, so a burst of concurrent claims sells exactly the stock.
func TestMemoryDecrementStock_ConcurrentExactDepletion(t *testing.T) {
	initialStock := 20
	totalRequests := 50

	m := seededMemoryAdapter(t, domain.Item{ID: "a", Name: "A", Stock: initialStock})

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.DecrementStock(context.Background(), "a"); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}

	items, _ := m.ListItems(context.Background())
	if items[0].Stock != 0 {
		t.Errorf("expected stock 0, got %d", items[0].Stock)
	}
}

func TestMemoryListItems_ReturnsSnapshots(t *testing.T) {
	m := seededMemoryAdapter(t, domain.Item{ID: "a", Name: "A", Stock: 5})

	items, _ := m.ListItems(context.Background())
	items[0].Stock = 0

	again, _ := m.ListItems(context.Background())
	if again[0].Stock != 5 {
		t.Errorf("store must not see caller mutations, got stock %d", again[0].Stock)
	}
}

func TestMemorySeedItems_ReplacesContents(t *testing.T) {
	m := seededMemoryAdapter(t, domain.Item{ID: "a", Name: "A", Stock: 5})

	err := m.SeedItems(context.Background(), []domain.Item{
		{ID: "b", Name: "B", Stock: 1},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	items, _ := m.ListItems(context.Background())
	if len(items) != 1 || items[0].ID != "b" {
		t.Errorf("expected only item b, got %v", items)
	}
}
