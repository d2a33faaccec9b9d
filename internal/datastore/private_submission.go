package datastore

import (
	"context"
	"time"

	"viralbite/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePrivateSubmission(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PrivateSubmission)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrivateSubmission)(nil)).Index("index_private_submission_invitation_id").IfNotExists().Column("invitation_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrivateSubmission)(nil)).Index("index_private_submission_influencer_id").IfNotExists().Column("influencer_id").Exec(ctx)
	return err
}

func CreatePrivateSubmission(ctx context.Context, db bun.IDB, submission *models.PrivateSubmission) (*models.PrivateSubmission, error) {
	_, err := db.NewInsert().Model(submission).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func FindPrivateSubmissionByID(ctx context.Context, db *bun.DB, submissionID int64) (*models.PrivateSubmission, error) {
	var submission models.PrivateSubmission
	err := db.NewSelect().Model(&submission).
		Relation("Invitation").
		Where("private_submission.id = ?", submissionID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func FindPrivateSubmissions(ctx context.Context, db *bun.DB) ([]models.PrivateSubmission, error) {
	var submissions []models.PrivateSubmission
	err := db.NewSelect().Model(&submissions).
		Relation("Invitation").
		Order("private_submission.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func FindPrivateSubmissionsByInvitation(ctx context.Context, db *bun.DB, invitationID int64) ([]models.PrivateSubmission, error) {
	var submissions []models.PrivateSubmission
	err := db.NewSelect().Model(&submissions).
		Where("invitation_id = ?", invitationID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func UpdatePrivateSubmissionPerformance(ctx context.Context, db bun.IDB, submissionID int64, views, likes int, earnings float64) error {
	_, err := db.NewUpdate().Model((*models.PrivateSubmission)(nil)).
		Set("views = ?", views).
		Set("likes = ?", likes).
		Set("earnings = ?", earnings).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", submissionID).
		Exec(ctx)
	return err
}
