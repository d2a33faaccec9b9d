package main

import (
	"context"
	"log"
	"os"

	"viralbite/internal/datastore"
	"viralbite/internal/datastore/redis_store"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

const DEFAULT_CRON_RANKING = "@every 5m"

// RankingJob rebuilds the campaign ranking ZSET from the approved view totals
// in Postgres. Redis is a throwaway projection here; a full rebuild keeps it
// honest after missed invalidations. Scores land in a staging key that is
// swapped in at the end, so the live ranking never reads empty mid-rebuild.
type RankingJob struct {
	Redis redis.UniversalClient
	Db    *bun.DB
}

func NewRankingJob(redis redis.UniversalClient, db *bun.DB) *RankingJob {
	return &RankingJob{
		Redis: redis,
		Db:    db,
	}
}

func (j *RankingJob) Start(cronRunner *cron.Cron) {
	schedule := os.Getenv("CRONJOB_TIME_RANKING")
	if schedule == "" {
		schedule = DEFAULT_CRON_RANKING
	}

	_, err := cronRunner.AddFunc(schedule, j.rebuild)
	log.Println("Ranking cronjob schedule:", schedule, err)
	j.rebuild()
}

func (j *RankingJob) rebuild() {
	ctx := context.Background()

	totals, err := datastore.GetCampaignViewTotals(ctx, j.Db)
	if err != nil {
		log.Println(err)
		return
	}

	if err := redis_store.ResetCampaignRankingStage(ctx, j.Redis); err != nil {
		log.Println(err)
		return
	}

	for _, total := range totals {
		err := redis_store.StageCampaignScore(ctx, j.Redis, total.CampaignID, total.Title, float64(total.Views))
		if err != nil {
			log.Println(err)
		}
	}

	if err := redis_store.PromoteCampaignRanking(ctx, j.Redis); err != nil {
		log.Println(err)
		return
	}

	log.Println("Ranking rebuilt:", len(totals), "campaigns")
}
