package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/slow-inventory/internal/core/domain"
)

// Schema:
//
//	CREATE TABLE items (
//	    id      VARCHAR(64) PRIMARY KEY,
//	    name    VARCHAR(255) NOT NULL,
//	    stock   INT NOT NULL,
//	    seq     INT NOT NULL,
//	    version INT NOT NULL DEFAULT 0
//	);
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, stock FROM items ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Stock); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) DecrementStock(ctx context.Context, itemID string) (domain.Item, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE items
		SET stock = stock - 1, version = version + 1
		WHERE id = ? AND stock > 0`, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("update stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Distinguish a missing item from an exhausted one.
		var stock int
		err := m.db.QueryRowContext(ctx,
			`SELECT stock FROM items WHERE id = ?`, itemID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, domain.ErrItemNotFound
		}
		if err != nil {
			return domain.Item{}, fmt.Errorf("query stock: %w", err)
		}
		return domain.Item{}, domain.ErrOutOfStock
	}

	var item domain.Item
	err = m.db.QueryRowContext(ctx,
		`SELECT id, name, stock FROM items WHERE id = ?`, itemID).
		Scan(&item.ID, &item.Name, &item.Stock)
	if err != nil {
		return domain.Item{}, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

func (m *MySQLAdapter) SeedItems(ctx context.Context, items []domain.Item) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	for i, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, name, stock, seq, version)
			VALUES (?, ?, ?, ?, 0)`,
			item.ID, item.Name, item.Stock, i)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}
