package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vehicle-rental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// against the pool or inside a transaction without knowing which.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db dbtx) repository.Repositories {
	return repository.Repositories{
		Users:    NewUserRepository(db),
		Vehicles: NewVehicleRepository(db),
		Units:    NewUnitRepository(db),
		Rentals:  NewRentalRepository(db),
		Payments: NewPaymentRepository(db),
	}
}

// WithinTx runs fn with every repository bound to a single transaction.
// fn returning an error rolls the whole transaction back.
func (s *Store) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	repos := newRepositories(tx)
	if err := fn(&repos); err != nil {
		return err
	}
	return tx.Commit()
}
