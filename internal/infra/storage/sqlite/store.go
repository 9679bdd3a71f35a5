// Package sqlite provides the SQLite-backed repositories behind
// ports.CustomerRepository and ports.OrderRepository.
//
// WAL mode is enabled on Open so that readers never block writers and
// vice versa — list endpoints keep working while an order is being
// written. Monetary values are stored as TEXT decimal strings, never
// REAL, so the figures computed by the pricing package survive the
// round-trip without float drift.
package sqlite

import (
	"database/sql"
	"fmt"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, making the service easy to build
	// and run in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Idempotent due to
// IF NOT EXISTS. Timestamps are RFC3339 TEXT, the SQLite idiom.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    phone       TEXT NOT NULL,
    email       TEXT,
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
CREATE INDEX IF NOT EXISTS idx_customers_name  ON customers(name);

CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    customer_id    TEXT NOT NULL REFERENCES customers(id) ON DELETE RESTRICT,
    status         TEXT NOT NULL,

    -- Money as decimal strings. subtotal/total in USD keep 2 decimals,
    -- total_clp has none; exchange_rate is the CLP-per-USD rate the
    -- order was created with.
    exchange_rate  TEXT NOT NULL,
    subtotal_usd   TEXT NOT NULL,
    total_usd      TEXT NOT NULL,
    total_clp      TEXT NOT NULL,

    created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status      ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_created_at  ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items (
    id                   TEXT PRIMARY KEY,
    order_id             TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_name         TEXT NOT NULL,
    quantity             INTEGER NOT NULL,

    -- Raw pricing inputs (4-decimal unit price, 2-decimal percentages).
    base_unit_price_usd  TEXT NOT NULL,
    tax_percent          TEXT NOT NULL,
    commission_percent   TEXT NOT NULL,

    -- Derived figures persisted at creation time; kept explicit so the
    -- history survives later changes to tax or commission rates.
    tax_usd              TEXT NOT NULL,
    commission_usd       TEXT NOT NULL,
    final_unit_price_usd TEXT NOT NULL,
    subtotal_usd         TEXT NOT NULL,

    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Store owns the database handle and hands out the repositories.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and
// applies the schema.
//
//	store, err := sqlite.Open("./data/shopmanager.db")
func Open(path string) (*Store, error) {
	// The pure-Go driver takes _pragma query parameters. WAL enables
	// concurrent readers, foreign_keys makes the item cascade and the
	// customer RESTRICT rule effective, busy_timeout waits for locks
	// instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (s *Store) Close() error {
	return s.db.Close()
}

// Customers returns the customer repository bound to this store.
func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{db: s.db}
}

// Orders returns the order repository bound to this store.
func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{db: s.db}
}

// nullableString returns nil for empty strings so SQLite stores NULL
// instead of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
