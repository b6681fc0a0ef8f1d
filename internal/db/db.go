// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/unclebandit/callgenie-backend/internal/config/configs"
)

// Open connects to Postgres through lib/pq and pings it with a timeout. The
// caller closes the returned handle.
func Open(ctx context.Context, cfg configs.Postgres, logger *slog.Logger) (*sql.DB, error) {
	addr := cfg.Addr
	logger.Info("connecting to database", slog.String("host", addr.Host), slog.String("database", addr.Path))

	conn, err := sql.Open("postgres", addr.String())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("connected to database")
	return conn, nil
}
