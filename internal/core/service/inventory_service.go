package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/slow-inventory/internal/core/domain"
	"github.com/rl1809/slow-inventory/internal/port"
)

// ErrReadFailed is the injected read failure. Callers must treat the
// message as opaque text, not a stable identifier.
var ErrReadFailed = errors.New("failed to load inventory")

type Config struct {
	// ReadDelay is slept before every list, simulating a slow backend.
	ReadDelay time.Duration
	// ClaimDelay is slept before every claim.
	ClaimDelay time.Duration
	// ReadFailureRate is the probability (0..1) that a list fails after
	// its delay. Zero disables injection.
	ReadFailureRate float64
}

type ClaimResult struct {
	ClaimID string
	Item    domain.Item
}

type InventoryService struct {
	repo   port.InventoryRepository
	cfg    Config
	logger *zap.Logger
}

func NewInventoryService(repo port.InventoryRepository, cfg Config, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// ListItems returns every item after the artificial read delay. It never
// mutates the store.
func (s *InventoryService) ListItems(ctx context.Context) ([]domain.Item, error) {
	if err := sleep(ctx, s.cfg.ReadDelay); err != nil {
		return nil, err
	}

	if s.cfg.ReadFailureRate > 0 && rand.Float64() < s.cfg.ReadFailureRate {
		s.logger.Warn("injected read failure",
			zap.Float64("failure_rate", s.cfg.ReadFailureRate))
		return nil, ErrReadFailed
	}

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Claim decrements one unit of stock for the given item after the
// artificial claim delay. The decrement itself is atomic in the store, so
// overlapping claims cannot push stock below zero.
func (s *InventoryService) Claim(ctx context.Context, itemID string) (ClaimResult, error) {
	if err := sleep(ctx, s.cfg.ClaimDelay); err != nil {
		return ClaimResult{}, err
	}

	claimID := uuid.New().String()

	item, err := s.repo.DecrementStock(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, domain.ErrOutOfStock) {
			s.logger.Info("claim rejected",
				zap.String("claim_id", claimID),
				zap.String("item_id", itemID),
				zap.String("reason", err.Error()))
			return ClaimResult{}, err
		}
		return ClaimResult{}, fmt.Errorf("decrement stock: %w", err)
	}

	s.logger.Info("claim settled",
		zap.String("claim_id", claimID),
		zap.String("item_id", item.ID),
		zap.Int("stock", item.Stock))

	return ClaimResult{ClaimID: claimID, Item: item}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
