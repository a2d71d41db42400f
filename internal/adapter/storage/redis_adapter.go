package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/slow-inventory/internal/core/domain"
)

const (
	itemKeyPrefix = "item:"
	itemIndexKey  = "items:index"
)

// claimScript decrements stock only when the item exists and has stock
// left. Returns -1 for a missing item, -2 for zero stock, otherwise the
// new stock value.
var claimScript = redis.NewScript(`
local key = KEYS[1]

local stock = redis.call('HGET', key, 'stock')
if not stock then
	return -1
end

stock = tonumber(stock)
if stock <= 0 then
	return -2
end

return redis.call('HINCRBY', key, 'stock', -1)
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	ids, err := r.client.LRange(ctx, itemIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read item index: %w", err)
	}

	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		fields, err := r.client.HGetAll(ctx, itemKeyPrefix+id).Result()
		if err != nil {
			return nil, fmt.Errorf("read item %s: %w", id, err)
		}
		stock, err := strconv.Atoi(fields["stock"])
		if err != nil {
			return nil, fmt.Errorf("parse stock for %s: %w", id, err)
		}
		items = append(items, domain.Item{
			ID:    id,
			Name:  fields["name"],
			Stock: stock,
		})
	}
	return items, nil
}

func (r *RedisAdapter) DecrementStock(ctx context.Context, itemID string) (domain.Item, error) {
	key := itemKeyPrefix + itemID

	result, err := claimScript.Run(ctx, r.client, []string{key}).Int()
	if err != nil {
		return domain.Item{}, fmt.Errorf("run claim script: %w", err)
	}

	switch result {
	case -1:
		return domain.Item{}, domain.ErrItemNotFound
	case -2:
		return domain.Item{}, domain.ErrOutOfStock
	}

	name, err := r.client.HGet(ctx, key, "name").Result()
	if err != nil {
		return domain.Item{}, fmt.Errorf("read item name: %w", err)
	}

	return domain.Item{ID: itemID, Name: name, Stock: result}, nil
}

func (r *RedisAdapter) SeedItems(ctx context.Context, items []domain.Item) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, itemIndexKey)
	for _, item := range items {
		pipe.HSet(ctx, itemKeyPrefix+item.ID, "name", item.Name, "stock", item.Stock)
		pipe.RPush(ctx, itemIndexKey, item.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	return nil
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
