// Package dbtest opens throwaway SQLite databases that mirror the Postgres schema
// closely enough for repository and service tests.
package dbtest

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT,
		address TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX customers_phone_active_key ON customers (phone) WHERE deleted_at IS NULL`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		brand TEXT NOT NULL,
		variants TEXT NOT NULL DEFAULT '{}',
		netto TEXT,
		packaging_type TEXT,
		packaging_size TEXT,
		nib TEXT,
		halal TEXT,
		pirt TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE materials (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE material_items (
		id TEXT PRIMARY KEY,
		material_id TEXT NOT NULL,
		name TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT 'pcs',
		stock INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE packaging_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE packaging_sizes (
		id TEXT PRIMARY KEY,
		type_id TEXT NOT NULL,
		size TEXT NOT NULL,
		price NUMERIC NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL,
		total_amount NUMERIC NOT NULL DEFAULT 0,
		discount NUMERIC NOT NULL DEFAULT 0,
		final_adjustment NUMERIC NOT NULL DEFAULT 0,
		paid_amount NUMERIC NOT NULL DEFAULT 0,
		payment_option TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		production_status TEXT NOT NULL,
		deadline DATETIME,
		actual_quantity INTEGER,
		designer_id TEXT,
		operator_id TEXT,
		created_by TEXT,
		note TEXT,
		picked_up_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		variant TEXT,
		quantity INTEGER NOT NULL,
		price NUMERIC NOT NULL,
		subtotal NUMERIC NOT NULL,
		note TEXT,
		has_design BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE inventory_logs (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		previous_stock INTEGER NOT NULL,
		current_stock INTEGER NOT NULL,
		note TEXT,
		user_id TEXT,
		order_id TEXT,
		created_at DATETIME
	)`,
	`CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		description TEXT NOT NULL,
		related_order_id TEXT,
		user_id TEXT,
		created_at DATETIME
	)`,
}

// Open returns a db.Client backed by a private in-memory SQLite database with the
// full schema applied. The database is closed when the test finishes.
func Open(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeName.ReplaceAllString(t.Name(), "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return db.Wrap(conn)
}
