package redis_store

import (
	"context"
	"errors"
	"fmt"

	"viralbite/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyCampaignRanking() string {
	return "campaign:ranking"
}

func dbKeyCampaignRankingStage() string {
	return "campaign:ranking:stage"
}

func dbKeyCampaignSnapshot(campaignID int64) string {
	return fmt.Sprintf("campaign:ranking:snapshot:%d", campaignID)
}

// rankingSnapshot is the msgpack payload stored alongside the ZSET score so
// the ranking endpoint can render titles without touching Postgres.
type rankingSnapshot struct {
	CampaignID int64  `msgpack:"campaign_id"`
	Title      string `msgpack:"title"`
}

// StageCampaignScore upserts one campaign into the staging ZSET and refreshes
// its snapshot. The live ranking stays untouched until PromoteCampaignRanking
// swaps the stage in, so readers never observe a half-built ranking.
func StageCampaignScore(ctx context.Context, cmd redis.Cmdable, campaignID int64, title string, views float64) error {
	err := cmd.ZAdd(ctx, dbKeyCampaignRankingStage(), redis.Z{
		Score:  views,
		Member: campaignID,
	}).Err()
	if err != nil {
		return err
	}

	b, err := msgpack.Marshal(&rankingSnapshot{CampaignID: campaignID, Title: title})
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyCampaignSnapshot(campaignID), b, 0).Err()
}

// ResetCampaignRankingStage drops a stage left over from an aborted rebuild.
func ResetCampaignRankingStage(ctx context.Context, cmd redis.Cmdable) error {
	return cmd.Del(ctx, dbKeyCampaignRankingStage()).Err()
}

// PromoteCampaignRanking replaces the live ranking with the staged one in a
// single RENAME. An empty stage clears the ranking instead.
func PromoteCampaignRanking(ctx context.Context, cmd redis.Cmdable) error {
	n, err := cmd.Exists(ctx, dbKeyCampaignRankingStage()).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ClearCampaignRanking(ctx, cmd)
	}
	return cmd.Rename(ctx, dbKeyCampaignRankingStage(), dbKeyCampaignRanking()).Err()
}

// GetCampaignRanking returns the top limit campaigns by approved views,
// highest first.
func GetCampaignRanking(ctx context.Context, cmd redis.Cmdable, limit int) ([]models.CampaignRankingItem, error) {
	zs, err := cmd.ZRevRangeWithScores(ctx, dbKeyCampaignRanking(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]models.CampaignRankingItem, 0, len(zs))
	for i, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		var campaignID int64
		if _, err := fmt.Sscanf(member, "%d", &campaignID); err != nil {
			continue
		}

		item := models.CampaignRankingItem{
			CampaignID: campaignID,
			Views:      z.Score,
			Rank:       i + 1,
		}

		b, err := cmd.Get(ctx, dbKeyCampaignSnapshot(campaignID)).Bytes()
		if err == nil {
			var snapshot rankingSnapshot
			if err := msgpack.Unmarshal(b, &snapshot); err == nil {
				item.Title = snapshot.Title
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

func ClearCampaignRanking(ctx context.Context, cmd redis.Cmdable) error {
	return cmd.Del(ctx, dbKeyCampaignRanking()).Err()
}
