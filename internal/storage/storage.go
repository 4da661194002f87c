// Package storage opens the kv backend named in the configuration.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/budgie/internal/config"
	"github.com/MrJamesThe3rd/budgie/internal/database"
	"github.com/MrJamesThe3rd/budgie/internal/kv"
	"github.com/MrJamesThe3rd/budgie/internal/kv/filestore"
	"github.com/MrJamesThe3rd/budgie/internal/kv/memory"
	"github.com/MrJamesThe3rd/budgie/internal/kv/sqlstore"
)

// Open returns the store for backend and a function releasing it.
func Open(backend, path string, logger *slog.Logger) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case config.BackendSQLite:
		db, err := database.New(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		logger.Info("using sqlite storage", "path", path)

		return sqlstore.New(db), db.Close, nil
	case config.BackendFile:
		s, err := filestore.New(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file store: %w", err)
		}

		logger.Info("using file storage", "dir", path)

		return s, noop, nil
	case config.BackendMemory:
		logger.Warn("using in-memory storage, nothing will be kept after exit")

		return memory.New(), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
