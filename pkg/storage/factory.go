package storage

import (
	"fmt"

	"codegate/pkg/config"
	pkgerrors "codegate/pkg/errors"
)

// NewStore returns a concrete Store based on database configuration.
// Type "none" disables persistence; the caller gets a nil Store.
func NewStore(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	case "mysql":
		return NewMySQLStore(cfg.DSN)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrUnsupportedStore, cfg.Type)
	}
}
