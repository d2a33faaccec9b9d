package datastore

import (
	"context"
	"time"

	"viralbite/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableSubmission(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Submission)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Submission)(nil)).Index("index_submission_campaign_id").IfNotExists().Column("campaign_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Submission)(nil)).Index("index_submission_influencer_id").IfNotExists().Column("influencer_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Submission)(nil)).Index("index_submission_status").IfNotExists().Column("status").Exec(ctx)
	return err
}

func CreateSubmission(ctx context.Context, db *bun.DB, submission *models.Submission) (*models.Submission, error) {
	_, err := db.NewInsert().Model(submission).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func FindSubmissionByID(ctx context.Context, db *bun.DB, submissionID int64) (*models.Submission, error) {
	var submission models.Submission
	err := db.NewSelect().Model(&submission).
		Relation("Campaign").
		Where("submission.id = ?", submissionID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func FindSubmissions(ctx context.Context, db *bun.DB) ([]models.Submission, error) {
	var submissions []models.Submission
	err := db.NewSelect().Model(&submissions).
		Relation("Campaign").
		Order("submission.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func FindSubmissionsByCampaign(ctx context.Context, db *bun.DB, campaignID int64) ([]models.Submission, error) {
	var submissions []models.Submission
	err := db.NewSelect().Model(&submissions).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func FindSubmissionsByInfluencer(ctx context.Context, db *bun.DB, influencerID int64) ([]models.Submission, error) {
	var submissions []models.Submission
	err := db.NewSelect().Model(&submissions).
		Relation("Campaign").
		Where("submission.influencer_id = ?", influencerID).
		Order("submission.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// FindSubmissionsByRestaurant returns submissions against any campaign owned
// by restaurantID.
func FindSubmissionsByRestaurant(ctx context.Context, db *bun.DB, restaurantID int64) ([]models.Submission, error) {
	var submissions []models.Submission
	err := db.NewSelect().Model(&submissions).
		Relation("Campaign").
		Where("campaign.restaurant_id = ?", restaurantID).
		Order("submission.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// UpdateSubmissionStatus applies a review decision. The pending guard sits in
// the WHERE clause so racing reviews cannot move a decided submission; false
// means another decision landed first.
func UpdateSubmissionStatus(ctx context.Context, db *bun.DB, submissionID int64, status models.SubmissionStatus) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Submission)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", submissionID).
		Where("status = ?", models.SubmissionPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateSubmissionPerformance overwrites the live snapshot with the latest
// admin-recorded counts and derived earnings.
func UpdateSubmissionPerformance(ctx context.Context, db bun.IDB, submissionID int64, views, likes int, earnings float64) error {
	_, err := db.NewUpdate().Model((*models.Submission)(nil)).
		Set("views = ?", views).
		Set("likes = ?", likes).
		Set("earnings = ?", earnings).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", submissionID).
		Exec(ctx)
	return err
}
