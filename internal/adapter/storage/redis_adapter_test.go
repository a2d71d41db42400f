package storage

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/slow-inventory/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func seededRedisAdapter(t *testing.T, client *redis.Client, items ...domain.Item) *RedisAdapter {
	t.Helper()
	adapter := NewRedisAdapter(client)
	if err := adapter.SeedItems(context.Background(), items); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return adapter
}

func TestRedisListItems_StableOrder(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	adapter := seededRedisAdapter(t, client,
		domain.Item{ID: "test-b", Name: "B", Stock: 1},
		domain.Item{ID: "test-a", Name: "A", Stock: 2},
	)

	items, err := adapter.ListItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "test-b" || items[1].ID != "test-a" {
		t.Fatalf("expected seed order [test-b test-a], got %v", items)
	}
}

func TestRedisDecrementStock_Success(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	adapter := seededRedisAdapter(t, client,
		domain.Item{ID: "test-item", Name: "Test Item", Stock: 10})

	item, err := adapter.DecrementStock(context.Background(), "test-item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Stock != 9 {
		t.Errorf("expected stock 9, got %d", item.Stock)
	}
	if item.Name != "Test Item" {
		t.Errorf("expected name preserved, got %q", item.Name)
	}
}

func TestRedisDecrementStock_OutOfStock(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	adapter := seededRedisAdapter(t, client,
		domain.Item{ID: "test-item", Name: "Test Item", Stock: 0})

	_, err := adapter.DecrementStock(context.Background(), "test-item")
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got: %v", err)
	}

	stock, _ := client.HGet(context.Background(), "item:test-item", "stock").Int()
	if stock != 0 {
		t.Errorf("stock must stay 0, got %d", stock)
	}
}

func TestRedisDecrementStock_NotFound(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	adapter := NewRedisAdapter(client)
	client.Del(context.Background(), "item:test-missing")

	_, err := adapter.DecrementStock(context.Background(), "test-missing")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got: %v", err)
	}
}

func TestRedisDecrementStock_ConcurrentExactDepletion(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	initialStock := 20
	totalRequests := 50

	adapter := seededRedisAdapter(t, client,
		domain.Item{ID: "test-item", Name: "Test Item", Stock: initialStock})

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := adapter.DecrementStock(context.Background(), "test-item"); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}

	stock, _ := client.HGet(context.Background(), "item:test-item", "stock").Int()
	if stock != 0 {
		t.Errorf("expected stock 0, got %d", stock)
	}
}
