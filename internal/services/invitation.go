package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"viralbite/internal/datastore"
	"viralbite/internal/models"
	"viralbite/internal/pkg/caching"
	"viralbite/internal/pkg/instagram"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

var errInvitationCompleted = errors.New("invitation already completed")

type ServiceInvitation struct {
	container    *do.Injector
	postgresDB   *bun.DB
	redisDBCache redis.UniversalClient
	probe        *instagram.Probe
}

func NewServiceInvitation(container *do.Injector) (*ServiceInvitation, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDBCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	probe, err := do.Invoke[*instagram.Probe](container)
	if err != nil {
		return nil, err
	}

	return &ServiceInvitation{container, postgresDB, redisDBCache, probe}, nil
}

type CreateInvitationInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	RewardAmount float64    `json:"reward_amount"`
	RewardViews  int        `json:"reward_views"`
	ImageURL     *string    `json:"image_url"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

func (service *ServiceInvitation) Create(ctx context.Context, user *models.User, input CreateInvitationInput) (*models.PrivateInvitation, error) {
	if user.Role != models.RoleRestaurant {
		return nil, errorx.Wrap(errors.New("only restaurants can create invitations"), errorx.Authn)
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
	if input.ExpiresAt != nil && input.ExpiresAt.Before(time.Now()) {
		return nil, errorx.Wrap(errors.New("expires_at is in the past"), errorx.Validation)
	}

	invitation := &models.PrivateInvitation{
		RestaurantID: user.ID,
		Title:        input.Title,
		Description:  input.Description,
		RewardAmount: input.RewardAmount,
		RewardViews:  input.RewardViews,
		InviteCode:   NewInviteCode(),
		Status:       models.InvitationPending,
		ImageURL:     input.ImageURL,
		CreatedAt:    time.Now(),
		ExpiresAt:    input.ExpiresAt,
	}

	invitation, err := datastore.CreateInvitation(ctx, service.postgresDB, invitation)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return invitation, nil
}

func (service *ServiceInvitation) ListForUser(ctx context.Context, user *models.User) ([]models.PrivateInvitation, error) {
	var invitations []models.PrivateInvitation
	var err error

	switch user.Role {
	case models.RoleRestaurant:
		invitations, err = datastore.FindInvitationsByRestaurant(ctx, service.postgresDB, user.ID)
	case models.RoleInfluencer:
		invitations, err = datastore.FindInvitationsByInfluencer(ctx, service.postgresDB, user.ID)
	default:
		return nil, errorx.Wrap(errors.New("unknown role"), errorx.Authn)
	}

	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return invitations, nil
}

// Redeem resolves an invite code for an influencer and binds the invitation
// to them if it is still unclaimed. A code bound to someone else behaves as
// if it does not exist.
func (service *ServiceInvitation) Redeem(ctx context.Context, user *models.User, code string) (*models.PrivateInvitation, error) {
	if user.Role != models.RoleInfluencer {
		return nil, errorx.Wrap(errors.New("only influencers can redeem invite codes"), errorx.Authn)
	}

	invitation, err := datastore.FindInvitationByCode(ctx, service.postgresDB, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if invitation.InfluencerID != nil && !invitation.BoundTo(user.ID) {
		return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
	}

	if invitation.Expired(time.Now()) {
		return nil, errorx.Wrap(errors.New("invitation expired"), errorx.Invalid)
	}

	if invitation.InfluencerID == nil {
		bound, err := datastore.BindInvitationInfluencer(ctx, service.postgresDB, invitation.ID, user.ID)
		if err != nil {
			return nil, errorx.Wrap(err, errorx.Service)
		}
		if !bound {
			// another influencer claimed the code between the read and the write
			return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
		}
		invitation.InfluencerID = &user.ID
	}

	return invitation, nil
}

// UpdateStatus applies the influencer decision: pending→accepted|declined.
// Completion is never set here; it happens on content submission.
func (service *ServiceInvitation) UpdateStatus(ctx context.Context, user *models.User, invitationID int64, target models.InvitationStatus) (*models.PrivateInvitation, error) {
	if target != models.InvitationAccepted && target != models.InvitationDeclined {
		return nil, errorx.Wrap(errors.New("status must be accepted or declined"), errorx.Validation)
	}

	invitation, err := service.findForInfluencer(ctx, user, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Status == target {
		return invitation, nil
	}

	if target == models.InvitationAccepted && invitation.Expired(time.Now()) {
		return nil, errorx.Wrap(errors.New("invitation expired"), errorx.Invalid)
	}

	if !invitation.Status.CanTransition(target) {
		return nil, errorx.Wrap(errors.New("invitation already decided"), errorx.Invalid)
	}

	updated, err := datastore.UpdateInvitationStatus(ctx, service.postgresDB, invitation.ID, models.InvitationPending, target)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if !updated {
		return nil, errorx.Wrap(errors.New("invitation already decided"), errorx.Invalid)
	}

	invitation.Status = target
	return invitation, nil
}

func (service *ServiceInvitation) Delete(ctx context.Context, user *models.User, invitationID int64) error {
	invitation, err := datastore.FindInvitationByID(ctx, service.postgresDB, invitationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
		}
		return errorx.Wrap(err, errorx.Service)
	}

	if invitation.RestaurantID != user.ID {
		return errorx.Wrap(errors.New("not invitation owner"), errorx.Authn)
	}

	if err := datastore.DeleteInvitation(ctx, service.postgresDB, invitationID); err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	return nil
}

// SubmitContent stores the influencer's content against an accepted
// invitation and completes it, atomically.
func (service *ServiceInvitation) SubmitContent(ctx context.Context, user *models.User, invitationID int64, input CreateSubmissionInput) (*models.PrivateSubmission, error) {
	invitation, err := service.findForInfluencer(ctx, user, invitationID)
	if err != nil {
		return nil, err
	}

	if invitation.Status != models.InvitationAccepted {
		return nil, errorx.Wrap(errors.New("invitation must be accepted before submitting"), errorx.Invalid)
	}

	if !instagram.ValidPostURL(input.InstagramURL) {
		return nil, errorx.Wrap(errors.New("instagram_url must be an instagram post link"), errorx.Validation)
	}
	if err := service.probe.Check(input.InstagramURL); err != nil {
		return nil, errorx.Wrap(err, errorx.Validation)
	}

	now := time.Now()
	submission := &models.PrivateSubmission{
		InvitationID: invitation.ID,
		InfluencerID: user.ID,
		InstagramURL: input.InstagramURL,
		Status:       models.SubmissionPending,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := datastore.CreatePrivateSubmission(ctx, tx, submission); err != nil {
			return err
		}

		completed, err := datastore.UpdateInvitationStatus(ctx, tx, invitation.ID, models.InvitationAccepted, models.InvitationCompleted)
		if err != nil {
			return err
		}
		if !completed {
			// a concurrent submission completed the invitation first;
			// rolling back discards the duplicate row
			return errInvitationCompleted
		}
		return nil
	})
	if errors.Is(err, errInvitationCompleted) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	invitation.Status = models.InvitationCompleted

	//nolint:errcheck
	caching.DeleteKeys(ctx, service.redisDBCache, DBKeyStatsPattern())
	return submission, nil
}

// ListSubmissions returns the content submitted against one invitation,
// visible to the owning restaurant, the bound influencer and admins.
func (service *ServiceInvitation) ListSubmissions(ctx context.Context, user *models.User, invitationID int64) ([]models.PrivateSubmission, error) {
	invitation, err := datastore.FindInvitationByID(ctx, service.postgresDB, invitationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	allowed := user.Role == models.RoleAdmin ||
		invitation.RestaurantID == user.ID ||
		invitation.BoundTo(user.ID)
	if !allowed {
		return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
	}

	submissions, err := datastore.FindPrivateSubmissionsByInvitation(ctx, service.postgresDB, invitationID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return submissions, nil
}

// ListPrivateSubmissions returns every private submission, newest first.
// Only the admin console reads this.
func (service *ServiceInvitation) ListPrivateSubmissions(ctx context.Context) ([]models.PrivateSubmission, error) {
	submissions, err := datastore.FindPrivateSubmissions(ctx, service.postgresDB)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return submissions, nil
}

func (service *ServiceInvitation) findForInfluencer(ctx context.Context, user *models.User, invitationID int64) (*models.PrivateInvitation, error) {
	invitation, err := datastore.FindInvitationByID(ctx, service.postgresDB, invitationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
		}
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if !invitation.BoundTo(user.ID) {
		return nil, errorx.Wrap(errors.New("invitation not found"), errorx.NotExist)
	}

	return invitation, nil
}

// NewInviteCode returns an uppercase code short enough to share verbally.
func NewInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:INVITE_CODE_LENGTH])
}
