// Package sqlite provides a SQLite-backed cart.Store. It is the default
// backend: a durable, single-writer local store that survives restarts
// without requiring an external database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/cart"
)

// schema creates the cart line table. Insertion order is preserved by the
// implicit rowid, which SQLite assigns monotonically.
const schema = `
CREATE TABLE IF NOT EXISTS cart_lines (
	cart_id    TEXT NOT NULL,
	product_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	price      INTEGER NOT NULL,
	image      TEXT NOT NULL DEFAULT '',
	quantity   INTEGER NOT NULL CHECK (quantity >= 1),
	PRIMARY KEY (cart_id, product_id)
);
`

// Store is a SQLite-backed cart store.
type Store struct {
	db *sql.DB
}

// Ensure Store implements cart.Store at compile time.
var _ cart.Store = (*Store)(nil)

// New opens (creating if necessary) the cart database at path. The parent
// directory is created when missing. WAL mode keeps reads cheap while a
// mutation is in flight.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the cart's lines in insertion order.
func (s *Store) Get(ctx context.Context, cartID string) ([]api.CartLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, price, image, quantity
		FROM cart_lines
		WHERE cart_id = ?
		ORDER BY rowid
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
// The upsert leaves the original rowid untouched, so incrementing never
// reorders the line.
func (s *Store) AddItem(ctx context.Context, cartID string, product api.Product) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_lines (cart_id, product_id, name, price, image, quantity)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = quantity + 1
	`, cartID, product.ID, product.Name, product.Price, product.Image)
	if err != nil {
		return fmt.Errorf("adding cart line: %w", err)
	}
	return nil
}

// RemoveItem deletes the product's line entirely.
func (s *Store) RemoveItem(ctx context.Context, cartID, productID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_lines WHERE cart_id = ? AND product_id = ?
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

	res, err := s.db.ExecContext(ctx, `
		UPDATE cart_lines SET quantity = ? WHERE cart_id = ? AND product_id = ?
	`, quantity, cartID, productID)
	if err != nil {
		return fmt.Errorf("updating cart line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating cart line: %w", err)
	}
	if n == 0 {
		return cart.ErrLineNotFound
	}
	return nil
}

// Clear removes every line from the cart.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = ?`, cartID)
	if err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
