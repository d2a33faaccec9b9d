package services

import (
	"context"
	"errors"
	"math"

	"viralbite/internal/datastore"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// AggregateCampaignStats folds submissions into one row per campaign.
// Views and earnings count approved submissions only; every ratio collapses
// to 0 when its denominator is 0 so nothing downstream ever sees NaN.
func AggregateCampaignStats(campaigns []models.Campaign, submissions []models.Submission) []models.CampaignStats {
	index := make(map[int64]int, len(campaigns))
	rows := make([]models.CampaignStats, len(campaigns))
	for i, campaign := range campaigns {
		index[campaign.ID] = i
		rows[i] = models.CampaignStats{CampaignID: campaign.ID, Title: campaign.Title}
	}

	for _, submission := range submissions {
		i, ok := index[submission.CampaignID]
		if !ok {
			continue
		}

		rows[i].Submissions++
		if submission.Status == models.SubmissionApproved {
			rows[i].ApprovedSubmissions++
			rows[i].Views += submission.Views
			rows[i].Likes += submission.Likes
			rows[i].Earnings = roundCents(rows[i].Earnings + submission.Earnings)
		}
	}

	for i := range rows {
		if rows[i].ApprovedSubmissions > 0 {
			rows[i].AvgViewsPerApproved = roundCents(float64(rows[i].Views) / float64(rows[i].ApprovedSubmissions))
		}
		if rows[i].Views > 0 {
			rows[i].EarningsPer1000 = roundCents(rows[i].Earnings / float64(rows[i].Views) * 1000)
		}
	}

	return rows
}

// AggregateInfluencerStats rolls up one influencer's submissions.
func AggregateInfluencerStats(submissions []models.Submission) models.InfluencerStats {
	var stats models.InfluencerStats
	for _, submission := range submissions {
		stats.Submissions++
		switch submission.Status {
		case models.SubmissionApproved:
			stats.ApprovedSubmissions++
			stats.Views += submission.Views
			stats.Likes += submission.Likes
			stats.Earnings = roundCents(stats.Earnings + submission.Earnings)
		case models.SubmissionPending:
			stats.PendingSubmissions++
		}
	}
	return stats
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type ServiceStats struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceStats(container *do.Injector) (*ServiceStats, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStats{container, postgresDB, cache}, nil
}

// StatsForUser computes the role-scoped dashboard payload. Results are
// cached briefly; every submission/performance mutation flushes stats keys.
func (service *ServiceStats) StatsForUser(ctx context.Context, user *models.User) (any, error) {
	switch user.Role {
	case models.RoleRestaurant:
		return caching.UseCache(ctx, service.cache, DBKeyStats(user.ID), CACHE_TTL_1_MIN, func() ([]models.CampaignStats, error) {
			return service.restaurantStats(ctx, user.ID)
		})
	case models.RoleInfluencer:
		return caching.UseCache(ctx, service.cache, DBKeyStats(user.ID), CACHE_TTL_1_MIN, func() (models.InfluencerStats, error) {
			return service.influencerStats(ctx, user.ID)
		})
	case models.RoleAdmin:
		return caching.UseCache(ctx, service.cache, DBKeyStats(user.ID), CACHE_TTL_1_MIN, func() (models.PlatformStats, error) {
			return service.platformStats(ctx)
		})
	default:
		return nil, errorx.Wrap(errors.New("unknown role"), errorx.Authn)
	}
}

func (service *ServiceStats) restaurantStats(ctx context.Context, restaurantID int64) ([]models.CampaignStats, error) {
	campaigns, err := datastore.FindCampaignsByRestaurant(ctx, service.postgresDB, restaurantID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	submissions, err := datastore.FindSubmissionsByRestaurant(ctx, service.postgresDB, restaurantID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	return AggregateCampaignStats(campaigns, submissions), nil
}

func (service *ServiceStats) influencerStats(ctx context.Context, influencerID int64) (models.InfluencerStats, error) {
	submissions, err := datastore.FindSubmissionsByInfluencer(ctx, service.postgresDB, influencerID)
	if err != nil {
		return models.InfluencerStats{}, errorx.Wrap(err, errorx.Service)
	}
	return AggregateInfluencerStats(submissions), nil
}

func (service *ServiceStats) platformStats(ctx context.Context) (models.PlatformStats, error) {
	campaigns, err := datastore.FindCampaigns(ctx, service.postgresDB)
	if err != nil {
		return models.PlatformStats{}, errorx.Wrap(err, errorx.Service)
	}

	submissions, err := datastore.FindSubmissions(ctx, service.postgresDB)
	if err != nil {
		return models.PlatformStats{}, errorx.Wrap(err, errorx.Service)
	}

	stats := models.PlatformStats{Campaigns: len(campaigns)}
	for _, submission := range submissions {
		stats.Submissions++
		if submission.Status == models.SubmissionApproved {
			stats.ApprovedSubmissions++
			stats.Views += submission.Views
			stats.Earnings = roundCents(stats.Earnings + submission.Earnings)
		}
	}
	return stats, nil
}
