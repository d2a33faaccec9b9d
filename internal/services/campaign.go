package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/datastore/redis_store"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceCampaign struct {
	container    *do.Injector
	postgresDB   *bun.DB
	redisDBCache redis.UniversalClient
	cache        caching.Cache
}

func NewServiceCampaign(container *do.Injector) (*ServiceCampaign, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDBCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCampaign{container, postgresDB, redisDBCache, cache}, nil
}

type CreateCampaignInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	RewardAmount float64 `json:"reward_amount"`
	RewardViews  int     `json:"reward_views"`
}

func (service *ServiceCampaign) Create(ctx context.Context, user *models.User, input CreateCampaignInput) (*models.Campaign, error) {
	if user.Role != models.RoleRestaurant {
		return nil, errorx.Wrap(errors.New("only restaurants can create campaigns"), errorx.Authn)
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, errorx.Wrap(errors.New("title is required"), errorx.Validation)
	}
	if input.RewardAmount <= 0 {
		return nil, errorx.Wrap(errors.New("reward_amount must be positive"), errorx.Validation)
	}
	if input.RewardViews <= 0 {
		return nil, errorx.Wrap(errors.New("reward_views must be positive"), errorx.Validation)
	}

	now := time.Now()
	campaign := &models.Campaign{
		RestaurantID: user.ID,
		Title:        input.Title,
		Description:  input.Description,
		RewardAmount: input.RewardAmount,
		RewardViews:  input.RewardViews,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	campaign, err := datastore.CreateCampaign(ctx, service.postgresDB, campaign)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidateLists(ctx, user.ID)
	return campaign, nil
}

func (service *ServiceCampaign) GetCampaign(ctx context.Context, campaignID int64) (*models.Campaign, error) {
	callback := func() (*models.Campaign, error) {
		campaign, err := datastore.FindCampaignByID(ctx, service.postgresDB, campaignID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errorx.Wrap(errors.New("campaign not found"), errorx.NotExist)
			}
			return nil, errorx.Wrap(err, errorx.Service)
		}
		return campaign, nil
	}

	return caching.UseCache(ctx, service.cache, DBKeyCampaign(campaignID), CACHE_TTL_5_MINS, callback)
}

// ListForUser scopes the campaign list by role: restaurants see their own,
// influencers and admins see everything.
func (service *ServiceCampaign) ListForUser(ctx context.Context, user *models.User) ([]models.Campaign, error) {
	if user.Role == models.RoleRestaurant {
		callback := func() ([]models.Campaign, error) {
			return datastore.FindCampaignsByRestaurant(ctx, service.postgresDB, user.ID)
		}
		campaigns, err := caching.UseCache(ctx, service.cache, DBKeyCampaignsByRestaurant(user.ID), CACHE_TTL_1_MIN, callback)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}
		return campaigns, nil
	}

	callback := func() ([]models.Campaign, error) {
		return datastore.FindCampaigns(ctx, service.postgresDB)
	}
	campaigns, err := caching.UseCache(ctx, service.cache, DBKeyCampaigns(), CACHE_TTL_1_MIN, callback)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return campaigns, nil
}

func (service *ServiceCampaign) Ranking(ctx context.Context, limit int) ([]models.CampaignRankingItem, error) {
	if limit <= 0 {
		limit = RANKING_DEFAULT_LIMIT
	}
	if limit > RANKING_MAX_LIMIT {
		limit = RANKING_MAX_LIMIT
	}

	items, err := redis_store.GetCampaignRanking(ctx, service.redisDBCache, limit)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return items, nil
}

func (service *ServiceCampaign) invalidateLists(ctx context.Context, restaurantID int64) {
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyCampaigns())
	//nolint:errcheck
	service.cache.Delete(ctx, DBKeyCampaignsByRestaurant(restaurantID))
	//nolint:errcheck
	caching.DeleteKeys(ctx, service.redisDBCache, DBKeyStatsPattern())
}
