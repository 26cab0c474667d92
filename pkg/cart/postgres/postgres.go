// Package postgres provides a PostgreSQL implementation of cart.Store.
// It uses pgx/v5 for connection pooling, for deployments where carts
// must be shared across multiple server instances.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/cart"
)

// Store is a PostgreSQL-backed cart store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements cart.Store at compile time.
var _ cart.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Get returns the cart's lines in insertion order.
func (s *Store) Get(ctx context.Context, cartID string) ([]api.CartLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, name, price, image, quantity
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY position
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("querying cart: %w", err)
	}
	defer rows.Close()

	var lines []api.CartLine
	for rows.Next() {
		var l api.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Image, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// AddItem increments the product's quantity, inserting a new line if needed.
// The upsert keeps the original position, so incrementing never reorders
// the line.
func (s *Store) AddItem(ctx context.Context, cartID string, product api.Product) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_lines (cart_id, product_id, name, price, image, quantity)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + 1
	`, cartID, product.ID, product.Name, product.Price, product.Image)
	if err != nil {
		return fmt.Errorf("adding cart line: %w", err)
	}
	return nil
}

// RemoveItem deletes the product's line entirely.
func (s *Store) RemoveItem(ctx context.Context, cartID, productID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	if err != nil {
		return fmt.Errorf("removing cart line: %w", err)
	}
	return nil
}

// UpdateQuantity sets the line's quantity; 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 0 {
		return cart.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE cart_lines SET quantity = $1 WHERE cart_id = $2 AND product_id = $3
	`, quantity, cartID, productID)
	if err != nil {
		return fmt.Errorf("updating cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Clear removes every line from the cart.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
