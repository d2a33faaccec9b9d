package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"
	"viralbite/internal/pkg/instagram"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB opens a per-test in-memory SQLite database with the full schema.
// The shared-cache DSN keyed by test name keeps parallel tests isolated while
// letting every connection in one test see the same data.
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
	require.NoError(t, datastore.CreateTableUser(ctx, db))
	require.NoError(t, datastore.CreateTableCampaign(ctx, db))
	require.NoError(t, datastore.CreateTableSubmission(ctx, db))
	require.NoError(t, datastore.CreateTablePrivateInvitation(ctx, db))
	require.NoError(t, datastore.CreateTablePrivateSubmission(ctx, db))
	require.NoError(t, datastore.CreateTablePerformanceMetric(ctx, db))

	return db
}

func newTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

// newTestContainer wires the service graph the way cmd/api does, backed by
// the in-memory stores.
func newTestContainer(t *testing.T, db *bun.DB, client redis.UniversalClient) *do.Injector {
	t.Helper()

	injector := do.New()
	t.Cleanup(func() {
		//nolint:errcheck
		injector.Shutdown()
	})

	do.ProvideValue(injector, db)
	do.ProvideNamedValue[redis.UniversalClient](injector, "redis-cache", client)

	cash, err := caching.NewCacheRedis(client, false)
	require.NoError(t, err)
	do.ProvideValue[caching.Cache](injector, cash)

	do.ProvideValue(injector, redsync.New(goredis.NewPool(client)))
	do.ProvideValue(injector, instagram.NewProbe(time.Second, 0))

	do.Provide(injector, NewServiceCampaign)
	do.Provide(injector, NewServiceSubmission)
	do.Provide(injector, NewServiceInvitation)
	do.Provide(injector, NewServicePerformance)

	return injector
}

func seedUser(t *testing.T, db *bun.DB, role models.UserRole) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		Name:         fmt.Sprintf("%s-%s", role, t.Name()),
		Email:        fmt.Sprintf("%s-%d@example.com", role, now.UnixNano()),
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}

func seedCampaign(t *testing.T, db *bun.DB, restaurantID int64, rewardAmount float64, rewardViews int) *models.Campaign {
	t.Helper()

	now := time.Now()
	campaign := &models.Campaign{
		RestaurantID: restaurantID,
		Title:        "Weekend tasting menu",
		RewardAmount: rewardAmount,
		RewardViews:  rewardViews,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := datastore.CreateCampaign(context.Background(), db, campaign)
	require.NoError(t, err)
	return campaign
}

func seedSubmission(t *testing.T, db *bun.DB, campaignID, influencerID int64, status models.SubmissionStatus) *models.Submission {
	t.Helper()

	now := time.Now()
	submission := &models.Submission{
		CampaignID:   campaignID,
		InfluencerID: influencerID,
		InstagramURL: "https://www.instagram.com/p/Abc123/",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := datastore.CreateSubmission(context.Background(), db, submission)
	require.NoError(t, err)
	return submission
}

func seedInvitation(t *testing.T, db *bun.DB, restaurantID int64, status models.InvitationStatus, influencerID *int64) *models.PrivateInvitation {
	t.Helper()

	invitation := &models.PrivateInvitation{
		RestaurantID: restaurantID,
		InfluencerID: influencerID,
		Title:        "Soft opening preview",
		RewardAmount: 50,
		RewardViews:  1000,
		InviteCode:   NewInviteCode(),
		Status:       status,
		CreatedAt:    time.Now(),
	}
	_, err := datastore.CreateInvitation(context.Background(), db, invitation)
	require.NoError(t, err)
	return invitation
}
