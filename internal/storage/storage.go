// Package storage opens the local sqlite store, applies embedded schema
// migrations, and bundles the per-aggregate repositories so whole-store
// operations (snapshot import, checkout) can run over a single handle.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/bsobat/inventra/internal/dbx"
	"github.com/bsobat/inventra/internal/repositories/categories"
	"github.com/bsobat/inventra/internal/repositories/configurations"
	"github.com/bsobat/inventra/internal/repositories/events"
	"github.com/bsobat/inventra/internal/repositories/inventory"
	"github.com/bsobat/inventra/internal/repositories/offers"
	"github.com/bsobat/inventra/internal/repositories/paymentmethods"
	"github.com/bsobat/inventra/internal/repositories/products"
	"github.com/bsobat/inventra/internal/repositories/sales"
)

//go:embed migrations/*.sql
var migrations embed.FS

// RunMigrations applies all embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Open opens (creating if necessary) the sqlite database at dsn, enables
// foreign keys, and brings the schema up to date.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Repositories bundles one repository per aggregate, all bound to the same
// DBTX. Construct it over *sql.DB for plain access or over a transaction
// handle inside dbx.WithTx when several writes must be atomic.
type Repositories struct {
	Categories     categories.Repository
	Products       products.Repository
	Offers         offers.Repository
	Events         events.Repository
	Sales          sales.Repository
	Inventory      inventory.Repository
	PaymentMethods paymentmethods.Repository
	Configurations configurations.Repository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Categories:     categories.NewSQLiteRepository(db),
		Products:       products.NewSQLiteRepository(db),
		Offers:         offers.NewSQLiteRepository(db),
		Events:         events.NewSQLiteRepository(db),
		Sales:          sales.NewSQLiteRepository(db),
		Inventory:      inventory.NewSQLiteRepository(db),
		PaymentMethods: paymentmethods.NewSQLiteRepository(db),
		Configurations: configurations.NewSQLiteRepository(db),
	}
}
