package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"
	"viralbite/internal/pkg/instagram"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceSubmission struct {
	container    *do.Injector
	postgresDB   *bun.DB
	redisDBCache redis.UniversalClient
	cache        caching.Cache
	probe        *instagram.Probe

	serviceCampaign *ServiceCampaign
}

func NewServiceSubmission(container *do.Injector) (*ServiceSubmission, error) {
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

	probe, err := do.Invoke[*instagram.Probe](container)
	if err != nil {
		return nil, err
	}

	serviceCampaign, err := do.Invoke[*ServiceCampaign](container)
	if err != nil {
		return nil, err
	}

	return &ServiceSubmission{container, postgresDB, redisDBCache, cache, probe, serviceCampaign}, nil
}

type CreateSubmissionInput struct {
	InstagramURL string  `json:"instagram_url"`
	Notes        *string `json:"notes"`
}

func (service *ServiceSubmission) CreateForCampaign(ctx context.Context, user *models.User, campaignID int64, input CreateSubmissionInput) (*models.Submission, error) {
	if user.Role != models.RoleInfluencer {
		return nil, errorx.Wrap(errors.New("only influencers can submit content"), errorx.Authn)
	}

	if _, err := service.serviceCampaign.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}

	if err := service.checkContentURL(input.InstagramURL); err != nil {
		return nil, err
	}

	now := time.Now()
	submission := &models.Submission{
		CampaignID:   campaignID,
		InfluencerID: user.ID,
		InstagramURL: input.InstagramURL,
		Status:       models.SubmissionPending,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	submission, err := datastore.CreateSubmission(ctx, service.postgresDB, submission)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	service.invalidateDerived(ctx)
	return submission, nil
}

func (service *ServiceSubmission) ListForUser(ctx context.Context, user *models.User) ([]models.Submission, error) {
	var submissions []models.Submission
	var err error

	switch user.Role {
	case models.RoleInfluencer:
		submissions, err = datastore.FindSubmissionsByInfluencer(ctx, service.postgresDB, user.ID)
	case models.RoleRestaurant:
		submissions, err = datastore.FindSubmissionsByRestaurant(ctx, service.postgresDB, user.ID)
	case models.RoleAdmin:
		submissions, err = datastore.FindSubmissions(ctx, service.postgresDB)
	default:
		return nil, errorx.Wrap(errors.New("unknown role"), errorx.Authn)
	}

	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return submissions, nil
}

func (service *ServiceSubmission) ListForCampaign(ctx context.Context, user *models.User, campaignID int64) ([]models.Submission, error) {
	campaign, err := service.serviceCampaign.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleAdmin && campaign.RestaurantID != user.ID {
		return nil, errorx.Wrap(errors.New("not campaign owner"), errorx.Authn)
	}

	submissions, err := datastore.FindSubmissionsByCampaign(ctx, service.postgresDB, campaignID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return submissions, nil
}

// UpdateStatus applies a restaurant review decision. Re-asserting the current
// status is a no-op so a double-clicked approve cannot fail or double-write.
func (service *ServiceSubmission) UpdateStatus(ctx context.Context, user *models.User, submissionID int64, target models.SubmissionStatus) (*models.Submission, error) {
	if !target.Valid() || target == models.SubmissionPending {
		return nil, errorx.Wrap(errors.New("status must be approved or rejected"), errorx.Validation)
	}

	submission, err := datastore.FindSubmissionByID(ctx, service.postgresDB, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(errors.New("submission not found"), errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if submission.Campaign == nil || submission.Campaign.RestaurantID != user.ID {
		return nil, errorx.Wrap(errors.New("not campaign owner"), errorx.Authn)
	}

	if submission.Status == target {
		return submission, nil
	}

	if !submission.Status.CanTransition(target) {
		return nil, errorx.Wrap(errors.New("review already decided"), errorx.Invalid)
	}

	updated, err := datastore.UpdateSubmissionStatus(ctx, service.postgresDB, submissionID, target)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !updated {
		// a concurrent review decided first
		return nil, errorx.Wrap(errors.New("review already decided"), errorx.Invalid)
	}

	submission.Status = target
	service.invalidateDerived(ctx)
	return submission, nil
}

func (service *ServiceSubmission) checkContentURL(rawURL string) error {
	if !instagram.ValidPostURL(rawURL) {
		return errorx.Wrap(errors.New("instagram_url must be an instagram post link"), errorx.Validation)
	}
	if err := service.probe.Check(rawURL); err != nil {
		return errorx.Wrap(err, errorx.Validation)
	}
	return nil
}

func (service *ServiceSubmission) invalidateDerived(ctx context.Context) {
	//nolint:errcheck
	caching.DeleteKeys(ctx, service.redisDBCache, DBKeyStatsPattern())
}
