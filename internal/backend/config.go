package backend

import (
	"fmt"
	"time"

	"kontor/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	// Session storage
	Type         BackendType
	SQLiteDBPath string

	// Backend API
	APIBaseURL      string
	HTTPTimeout     time.Duration
	Locale          string
	MaxTransactions int

	// Change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Search cache
	MatchCacheTTL        time.Duration
	MatchCacheSize       int
	CacheCleanupInterval time.Duration
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.SessionBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.SessionBackend)
	}

	return Config{
		Type:         backendType,
		SQLiteDBPath: appConfig.SQLiteDBPath,

		APIBaseURL:      appConfig.APIBaseURL,
		HTTPTimeout:     appConfig.HTTPTimeout,
		Locale:          appConfig.Locale,
		MaxTransactions: appConfig.MaxTransactions,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,

		MatchCacheTTL:        appConfig.MatchCacheTTL,
		MatchCacheSize:       appConfig.MatchCacheSize,
		CacheCleanupInterval: appConfig.CacheCleanupInterval,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MemoryBackend:
		// Memory backend doesn't require additional validation
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, SQLiteBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	strings := make([]string, len(types))
	for i, t := range types {
		strings[i] = t.String()
	}
	return strings
}
