package db

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/unclebandit/callgenie-backend/internal/config/configs"
	"github.com/unclebandit/callgenie-backend/internal/repository"
)

// OpenStores builds the repositories for the configured store driver. The
// returned closer releases the underlying file or connection pool.
func OpenStores(ctx context.Context, store configs.Store, psql configs.Postgres, logger *slog.Logger) (repository.Stores, io.Closer, error) {
	switch store.Driver {
	case configs.StoreDriverFile, "":
		fs, err := repository.OpenFileStore(store.FilePath)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		logger.Info("using file store", slog.String("path", store.FilePath))
		return fs.Stores(), fs, nil

	case configs.StoreDriverPostgres:
		if psql.RunMigrations {
			if err := Migrate(psql.Addr.String()); err != nil {
				return repository.Stores{}, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied successfully")
		}
		conn, err := Open(ctx, psql, logger)
		if err != nil {
			return repository.Stores{}, nil, err
		}
		return repository.NewPostgresStores(conn), conn, nil

	default:
		return repository.Stores{}, nil, fmt.Errorf("unknown store driver %q", store.Driver)
	}
}
