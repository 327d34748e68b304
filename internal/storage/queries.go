package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type ClientState struct {
	Key   string
	Value []byte
}

const getClientState = `-- name: GetClientState :one
SELECT key, value FROM client_state WHERE key = ?
`

func (q *Queries) GetClientState(ctx context.Context, key string) (ClientState, error) {
	row := q.db.QueryRowContext(ctx, getClientState, key)
	var i ClientState
	err := row.Scan(&i.Key, &i.Value)
	return i, err
}

const upsertClientState = `-- name: UpsertClientState :exec
INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type UpsertClientStateParams struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

func (q *Queries) UpsertClientState(ctx context.Context, arg UpsertClientStateParams) error {
	_, err := q.db.ExecContext(ctx, upsertClientState, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}

const deleteClientState = `-- name: DeleteClientState :exec
DELETE FROM client_state WHERE key = ?
`

func (q *Queries) DeleteClientState(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteClientState, key)
	return err
}
