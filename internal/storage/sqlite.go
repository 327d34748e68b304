package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kontor/internal/log"
	"kontor/internal/session"

	_ "modernc.org/sqlite"
)

// SQLiteStorage persists client state records in a local SQLite file.
type SQLiteStorage struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteStorage(dbPath string, logger *log.Logger) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStorage{
		db:      db,
		queries: New(db),
		logger:  log.OrDiscard(logger).WithComponent(log.ComponentStorage),
	}, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements session.Storage
func (s *SQLiteStorage) Load(ctx context.Context, key string) ([]byte, error) {
	row, err := s.queries.GetClientState(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client state %s: %w", key, err)
	}
	return row.Value, nil
}

// Save implements session.Storage
func (s *SQLiteStorage) Save(ctx context.Context, key string, value []byte) error {
	err := s.queries.UpsertClientState(ctx, UpsertClientStateParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save client state %s: %w", key, err)
	}

	s.logger.DebugContext(ctx, "Client state saved", "key", key, "bytes", len(value))
	return nil
}

// Delete removes a record; deleting a missing key is not an error.
func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if err := s.queries.DeleteClientState(ctx, key); err != nil {
		return fmt.Errorf("delete client state %s: %w", key, err)
	}
	return nil
}
