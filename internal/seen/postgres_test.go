package seen

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/dci-recap/internal/config"
	"github.com/albapepper/dci-recap/internal/db"
)

// Set RECAP_TEST_DATABASE_URL to a scratch database to run these.
func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("RECAP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("RECAP_TEST_DATABASE_URL not set")
	}

	cfg := config.Default()
	cfg.DatabaseURL = dsn

	storeContract(t, func(t *testing.T) Store {
		ctx := context.Background()
		pool, err := db.New(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(pool.Close)

		_, err = pool.Exec(ctx, "TRUNCATE seen_events RESTART IDENTITY")
		require.NoError(t, err)
		return NewPostgresStore(pool)
	})
}
