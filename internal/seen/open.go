package seen

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/db"
)

// Open builds the store selected by cfg.StoreDriver. For the postgres driver
// the returned store owns the pool and closes it on Close.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreCSV:
		logger.Info("seen store opened", "driver", "csv", "path", cfg.StorePath)
		return NewCSVStore(cfg.StorePath), nil
	case config.StoreSQLite:
		return OpenSQLite(cfg.StorePath, logger)
	case config.StorePostgres:
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, &StorageError{Op: "open", Err: err}
		}
		logger.Info("seen store opened", "driver", "postgres")
		return &ownedPostgres{PostgresStore: NewPostgresStore(pool), pool: pool}, nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", ErrStorage, cfg.StoreDriver)
	}
}

type ownedPostgres struct {
	*PostgresStore
	pool *db.Pool
}

func (o *ownedPostgres) Close() error {
	o.pool.Close()
	return nil
}
