package backend

import (
	"context"

	"kontor/internal/amqp"
	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/session"
	"kontor/internal/sheets"
	"kontor/internal/stores"
)

// SessionStorage is a session.Storage that holds resources.
type SessionStorage interface {
	session.Storage
	Close() error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Backend bundles everything a command needs: the API client, the session,
// the stores and the optional outbound adapters.
type Backend struct {
	Client  *api.Client
	Session *session.Session

	Transactions  *stores.TransactionStore
	Accounts      *stores.AccountStore
	MasterData    *stores.MasterDataStore
	Preferences   *stores.PreferencesStore
	OnlineBanking *stores.OnlineBankingStore
	Users         *stores.UserStore

	// Events is nil when AMQP is not configured or unreachable.
	Events *amqp.Client
	// Exporter is nil when no spreadsheet is configured.
	Exporter sheets.TransactionExporter
	Caches   *cache.Manager

	Cleanup CleanupFunc
}

// Close releases the backend's resources.
func (b *Backend) Close() error {
	if b == nil || b.Cleanup == nil {
		return nil
	}
	return b.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*Backend, error)
}

// BackendType selects where the session is persisted.
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
