package datastore

import (
	"context"

	"viralbite/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePerformanceMetric(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.PerformanceMetric)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PerformanceMetric)(nil)).Index("index_performance_metric_submission_id").IfNotExists().Column("submission_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PerformanceMetric)(nil)).Index("index_performance_metric_private_submission_id").IfNotExists().Column("private_submission_id").Exec(ctx)
	return err
}

// InsertPerformanceMetric appends one snapshot to the history trail. There is
// deliberately no update or delete counterpart.
func InsertPerformanceMetric(ctx context.Context, db bun.IDB, metric *models.PerformanceMetric) (*models.PerformanceMetric, error) {
	_, err := db.NewInsert().Model(metric).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return metric, nil
}

func FindMetricsBySubmission(ctx context.Context, db *bun.DB, submissionID int64) ([]models.PerformanceMetric, error) {
	var metrics []models.PerformanceMetric
	err := db.NewSelect().Model(&metrics).
		Where("submission_id = ?", submissionID).
		Order("updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func FindMetricsByPrivateSubmission(ctx context.Context, db *bun.DB, privateSubmissionID int64) ([]models.PerformanceMetric, error) {
	var metrics []models.PerformanceMetric
	err := db.NewSelect().Model(&metrics).
		Where("private_submission_id = ?", privateSubmissionID).
		Order("updated_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return metrics, nil
}
