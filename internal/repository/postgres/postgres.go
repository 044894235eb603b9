package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/lib/pq"

	"bike-rental-marketplace/internal/logger"
	"bike-rental-marketplace/internal/repository"
)

//go:embed schema.sql
var schema string

type Store struct {
	db *sql.DB
	repository.BookingRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		BookingRepository: NewBookingRepository(db),
	}
}

// Open connects to PostgreSQL and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the journal tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	logger.DatabaseCall("EnsureSchema", "schema.sql")
	_, err := s.db.ExecContext(ctx, schema)
	logger.DatabaseResult("EnsureSchema", 0, err)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
