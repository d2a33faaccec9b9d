package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

var ErrPerformanceLock = errors.New("performance update locked")

// CalculateEarnings derives the payout from a view snapshot: the campaign
// pays rewardAmount per rewardViews views, pro-rated and rounded to cents.
// Degenerate reward terms earn nothing.
func CalculateEarnings(viewCount int, rewardAmount float64, rewardViews int) float64 {
	if viewCount <= 0 || rewardViews <= 0 || rewardAmount <= 0 {
		return 0
	}
	earnings := rewardAmount * float64(viewCount) / float64(rewardViews)
	return math.Round(earnings*100) / 100
}

type ServicePerformance struct {
	container    *do.Injector
	postgresDB   *bun.DB
	redisDBCache redis.UniversalClient
	rs           *redsync.Redsync
}

func NewServicePerformance(container *do.Injector) (*ServicePerformance, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDBCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	return &ServicePerformance{container, postgresDB, redisDBCache, rs}, nil
}

type PerformanceInput struct {
	ViewCount int `json:"view_count"`
	LikeCount int `json:"like_count"`
}

func (input PerformanceInput) validate() error {
	if input.ViewCount < 0 || input.LikeCount < 0 {
		return errorx.Wrap(errors.New("counts must be non-negative"), errorx.Validation)
	}
	return nil
}

// RecordSubmission reconciles an admin-entered view/like snapshot into
// earnings: the live counters move to the snapshot and a history row is
// appended. A per-submission lock serializes concurrent admin writes.
func (service *ServicePerformance) RecordSubmission(ctx context.Context, admin *models.User, submissionID int64, input PerformanceInput) (*models.PerformanceMetric, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeySubmissionPerformance(submissionID), redsync.WithExpiry(PERFORMANCE_LOCK_EXPIRY))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errorx.Wrap(ErrPerformanceLock, errorx.Service)
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	submission, err := datastore.FindSubmissionByID(ctx, service.postgresDB, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(errors.New("submission not found"), errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if submission.Campaign == nil {
		return nil, errorx.Wrap(errors.New("submission has no campaign"), errorx.Service)
	}

	earnings := CalculateEarnings(input.ViewCount, submission.Campaign.RewardAmount, submission.Campaign.RewardViews)
	metric := &models.PerformanceMetric{
		ID:                 uuid.NewString(),
		SubmissionID:       &submissionID,
		ViewCount:          input.ViewCount,
		LikeCount:          input.LikeCount,
		CalculatedEarnings: earnings,
		UpdatedBy:          admin.ID,
		UpdatedAt:          time.Now(),
	}

	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.UpdateSubmissionPerformance(ctx, tx, submissionID, input.ViewCount, input.LikeCount, earnings); err != nil {
			return err
		}
		_, err := datastore.InsertPerformanceMetric(ctx, tx, metric)
		return err
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidateDerived(ctx)
	return metric, nil
}

// RecordPrivateSubmission is RecordSubmission against an invitation's reward
// terms.
func (service *ServicePerformance) RecordPrivateSubmission(ctx context.Context, admin *models.User, submissionID int64, input PerformanceInput) (*models.PerformanceMetric, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	mutex := service.rs.NewMutex(LockKeyPrivateSubmissionPerformance(submissionID), redsync.WithExpiry(PERFORMANCE_LOCK_EXPIRY))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errorx.Wrap(ErrPerformanceLock, errorx.Service)
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	submission, err := datastore.FindPrivateSubmissionByID(ctx, service.postgresDB, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(errors.New("private submission not found"), errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if submission.Invitation == nil {
		return nil, errorx.Wrap(errors.New("submission has no invitation"), errorx.Service)
	}

	earnings := CalculateEarnings(input.ViewCount, submission.Invitation.RewardAmount, submission.Invitation.RewardViews)
	metric := &models.PerformanceMetric{
		ID:                  uuid.NewString(),
		PrivateSubmissionID: &submissionID,
		ViewCount:           input.ViewCount,
		LikeCount:           input.LikeCount,
		CalculatedEarnings:  earnings,
		UpdatedBy:           admin.ID,
		UpdatedAt:           time.Now(),
	}

	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.UpdatePrivateSubmissionPerformance(ctx, tx, submissionID, input.ViewCount, input.LikeCount, earnings); err != nil {
			return err
		}
		_, err := datastore.InsertPerformanceMetric(ctx, tx, metric)
		return err
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidateDerived(ctx)
	return metric, nil
}

func (service *ServicePerformance) History(ctx context.Context, submissionID int64) ([]models.PerformanceMetric, error) {
	metrics, err := datastore.FindMetricsBySubmission(ctx, service.postgresDB, submissionID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return metrics, nil
}

func (service *ServicePerformance) PrivateHistory(ctx context.Context, submissionID int64) ([]models.PerformanceMetric, error) {
	metrics, err := datastore.FindMetricsByPrivateSubmission(ctx, service.postgresDB, submissionID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return metrics, nil
}

func (service *ServicePerformance) invalidateDerived(ctx context.Context) {
	//nolint:errcheck
	caching.DeleteKeys(ctx, service.redisDBCache, DBKeyStatsPattern())
}
