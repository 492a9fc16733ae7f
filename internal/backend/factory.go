package backend

import (
	"context"
	"fmt"

	"finanzas/internal/log"
	fsstore "finanzas/internal/store/firestore"
	"finanzas/internal/store/memory"
	"finanzas/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Store: memory.New()}, nil

	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{
			Store:   repo,
			Cleanup: repo.Close,
		}, nil

	case FirestoreBackend:
		client, err := fsstore.New(ctx, config.FirestoreProjectID, config.FirestoreCredentials)
		if err != nil {
			return nil, fmt.Errorf("initialize Firestore client: %w", err)
		}
		f.logger.Info("Initialized Firestore backend", "project_id", config.FirestoreProjectID)
		return &BackendResult{
			Store:   client,
			Cleanup: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
