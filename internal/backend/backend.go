// Package backend selects and wires a record store implementation from
// configuration.
package backend

import (
	"context"
	"fmt"

	"finanzas/internal/config"
	"finanzas/internal/store"
)

// CleanupFunc releases backend resources on shutdown
type CleanupFunc func() error

// BackendResult contains the store instance and optional cleanup function
type BackendResult struct {
	Store   store.RecordStore
	Cleanup CleanupFunc
}

// Type represents the kind of record store backing the app
type Type string

const (
	MemoryBackend    Type = "memory"
	SQLiteBackend    Type = "sqlite"
	FirestoreBackend Type = "firestore"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, FirestoreBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Firestore specific
	FirestoreProjectID   string
	FirestoreCredentials string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:                 backendType,
		SQLiteDBPath:         appConfig.SQLiteDBPath,
		FirestoreProjectID:   appConfig.FirestoreProjectID,
		FirestoreCredentials: appConfig.FirestoreCredentials,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case FirestoreBackend:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("Firestore project ID is required for firestore backend")
		}
	case MemoryBackend:
		// Nothing to validate
	}

	return nil
}

// Factory creates record stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
