package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB opens a per-test in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctx := context.Background()
	require.NoError(t, CreateTableUser(ctx, db))
	require.NoError(t, CreateTableCampaign(ctx, db))
	require.NoError(t, CreateTableSubmission(ctx, db))
	require.NoError(t, CreateTablePrivateInvitation(ctx, db))
	require.NoError(t, CreateTablePrivateSubmission(ctx, db))
	require.NoError(t, CreateTablePerformanceMetric(ctx, db))

	return db
}
