package backend

import (
	"context"
	"errors"
	"fmt"

	"kontor/internal/amqp"
	"kontor/internal/api"
	"kontor/internal/cache"
	"kontor/internal/log"
	"kontor/internal/numparse"
	"kontor/internal/session"
	gsheet "kontor/internal/sheets/google"
	"kontor/internal/storage"
	"kontor/internal/stores"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: log.OrDiscard(logger).WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	parser, err := numparse.New(config.Locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", config.Locale, err)
	}

	opts := []api.Option{api.WithLogger(f.logger)}
	if config.HTTPTimeout > 0 {
		opts = append(opts, api.WithTimeout(config.HTTPTimeout))
	}
	client, err := api.New(config.APIBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}

	sessStore, err := f.createSessionStorage(config)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(ctx, sessStore, f.logger)
	if err != nil {
		sessStore.Close()
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	b := &Backend{Client: client, Session: sess}
	deps := stores.Deps{Client: client, Session: sess, Logger: f.logger}

	// Initialize AMQP client (optional)
	if config.AMQPURL != "" {
		events, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err.Error())
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			b.Events = events
			deps.Publisher = events
		}
	}

	matches := cache.NewLRUCache[stores.MatchResult](config.MatchCacheSize, config.MatchCacheTTL)
	b.Caches = cache.NewManager(f.logger)
	b.Caches.Register(matches)
	if matches.Enabled() && config.CacheCleanupInterval > 0 {
		b.Caches.StartCleanup(config.CacheCleanupInterval)
	}

	b.Transactions = stores.NewTransactionStore(deps, stores.TransactionOptions{
		MaxTransactions: config.MaxTransactions,
		Parser:          parser,
		MatchCache:      matches,
	})
	b.Accounts = stores.NewAccountStore(deps)
	b.MasterData = stores.NewMasterDataStore(deps)
	b.Preferences = stores.NewPreferencesStore(deps)
	b.OnlineBanking = stores.NewOnlineBankingStore(deps)
	b.Users = stores.NewUserStore(deps)

	if config.GoogleSpreadsheetID != "" {
		exporter, err := gsheet.NewFromEnv(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName,
			gsheet.WithTagResolver(b.MasterData.TagNames),
			gsheet.WithLogger(f.logger))
		if err != nil {
			f.logger.Warn("Failed to initialize Google Sheets export", log.FieldError, err.Error())
		} else {
			b.Exporter = exporter
		}
	}

	b.Cleanup = func() error {
		b.Caches.Stop()
		var errs []error
		if b.Events != nil {
			errs = append(errs, b.Events.Close())
		}
		errs = append(errs, sessStore.Close())
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"session_backend", config.Type,
		"api", config.APIBaseURL,
		"amqp_enabled", b.Events != nil,
		"export_enabled", b.Exporter != nil)
	return b, nil
}

func (f *DefaultFactory) createSessionStorage(config Config) (SessionStorage, error) {
	switch config.Type {
	case SQLiteBackend:
		s, err := storage.NewSQLiteStorage(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite session storage: %w", err)
		}
		return s, nil
	case MemoryBackend:
		return session.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
