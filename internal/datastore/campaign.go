package datastore

import (
	"context"

	"viralbite/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCampaign(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Campaign)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Campaign)(nil)).Index("index_campaign_restaurant_id").IfNotExists().Column("restaurant_id").Exec(ctx)
	return err
}

func CreateCampaign(ctx context.Context, db *bun.DB, campaign *models.Campaign) (*models.Campaign, error) {
	_, err := db.NewInsert().Model(campaign).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func FindCampaignByID(ctx context.Context, db *bun.DB, campaignID int64) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.NewSelect().Model(&campaign).Where("id = ?", campaignID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func FindCampaigns(ctx context.Context, db *bun.DB) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := db.NewSelect().Model(&campaigns).Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func FindCampaignsByRestaurant(ctx context.Context, db *bun.DB, restaurantID int64) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := db.NewSelect().Model(&campaigns).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// CampaignViewTotal carries the approved-view sum used to score the ranking.
type CampaignViewTotal struct {
	CampaignID int64  `bun:"campaign_id"`
	Title      string `bun:"title"`
	Views      int64  `bun:"views"`
}

func GetCampaignViewTotals(ctx context.Context, db *bun.DB) ([]CampaignViewTotal, error) {
	var totals []CampaignViewTotal
	err := db.NewSelect().
		TableExpr("campaign AS c").
		ColumnExpr("c.id AS campaign_id").
		ColumnExpr("c.title AS title").
		ColumnExpr("coalesce(sum(s.views), 0) AS views").
		Join("LEFT JOIN submission AS s ON s.campaign_id = c.id AND s.status = ?", models.SubmissionApproved).
		GroupExpr("c.id, c.title").
		Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}
	return totals, nil
}
