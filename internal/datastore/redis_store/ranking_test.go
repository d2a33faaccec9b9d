package redis_store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func TestStagedRankingDoesNotDisturbLiveUntilPromote(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	require.NoError(t, StageCampaignScore(ctx, client, 1, "Pasta week", 500))
	require.NoError(t, StageCampaignScore(ctx, client, 2, "Sushi night", 900))

	// readers see nothing until the stage is swapped in
	items, err := GetCampaignRanking(ctx, client, 10)
	require.NoError(t, err)
	require.Empty(t, items)

	require.NoError(t, PromoteCampaignRanking(ctx, client))

	items, err = GetCampaignRanking(ctx, client, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.EqualValues(t, 2, items[0].CampaignID)
	require.Equal(t, "Sushi night", items[0].Title)
	require.Equal(t, 900.0, items[0].Views)
	require.Equal(t, 1, items[0].Rank)
	require.EqualValues(t, 1, items[1].CampaignID)
	require.Equal(t, 2, items[1].Rank)
}

func TestRankingRebuildKeepsLiveVisibleMidStage(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	require.NoError(t, StageCampaignScore(ctx, client, 1, "Pasta week", 500))
	require.NoError(t, PromoteCampaignRanking(ctx, client))

	// a second rebuild in progress must not blank the live ranking
	require.NoError(t, ResetCampaignRankingStage(ctx, client))
	require.NoError(t, StageCampaignScore(ctx, client, 1, "Pasta week", 800))

	items, err := GetCampaignRanking(ctx, client, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 500.0, items[0].Views)

	require.NoError(t, PromoteCampaignRanking(ctx, client))

	items, err = GetCampaignRanking(ctx, client, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 800.0, items[0].Views)
}

func TestPromoteEmptyStageClearsRanking(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)

	require.NoError(t, StageCampaignScore(ctx, client, 1, "Pasta week", 500))
	require.NoError(t, PromoteCampaignRanking(ctx, client))

	// no campaigns left: the rebuild stages nothing and the promote clears
	require.NoError(t, ResetCampaignRankingStage(ctx, client))
	require.NoError(t, PromoteCampaignRanking(ctx, client))

	items, err := GetCampaignRanking(ctx, client, 10)
	require.NoError(t, err)
	require.Empty(t, items)
}
