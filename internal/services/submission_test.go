package services

import (
	"context"
	"testing"

	"viralbite/internal/datastore"
	"viralbite/internal/models"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

func TestSubmissionUpdateStatusReassertNoop(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newTestRedis(t)
	injector := newTestContainer(t, db, client)

	service, err := do.Invoke[*ServiceSubmission](injector)
	require.NoError(t, err)

	restaurant := seedUser(t, db, models.RoleRestaurant)
	influencer := seedUser(t, db, models.RoleInfluencer)
	campaign := seedCampaign(t, db, restaurant.ID, 10, 1000)
	submission := seedSubmission(t, db, campaign.ID, influencer.ID, models.SubmissionPending)

	approved, err := service.UpdateStatus(ctx, restaurant, submission.ID, models.SubmissionApproved)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionApproved, approved.Status)

	// a double-clicked approve must not fail or rewrite the row
	again, err := service.UpdateStatus(ctx, restaurant, submission.ID, models.SubmissionApproved)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionApproved, again.Status)

	stored, err := datastore.FindSubmissionByID(ctx, db, submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionApproved, stored.Status)
}

func TestSubmissionUpdateStatusDecisionIsFinal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newTestRedis(t)
	injector := newTestContainer(t, db, client)

	service, err := do.Invoke[*ServiceSubmission](injector)
	require.NoError(t, err)

	restaurant := seedUser(t, db, models.RoleRestaurant)
	influencer := seedUser(t, db, models.RoleInfluencer)
	campaign := seedCampaign(t, db, restaurant.ID, 10, 1000)
	submission := seedSubmission(t, db, campaign.ID, influencer.ID, models.SubmissionPending)

	_, err = service.UpdateStatus(ctx, restaurant, submission.ID, models.SubmissionRejected)
	require.NoError(t, err)

	_, err = service.UpdateStatus(ctx, restaurant, submission.ID, models.SubmissionApproved)
	require.Error(t, err)

	stored, err := datastore.FindSubmissionByID(ctx, db, submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionRejected, stored.Status)
}

func TestSubmissionUpdateStatusRequiresOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newTestRedis(t)
	injector := newTestContainer(t, db, client)

	service, err := do.Invoke[*ServiceSubmission](injector)
	require.NoError(t, err)

	restaurant := seedUser(t, db, models.RoleRestaurant)
	other := seedUser(t, db, models.RoleRestaurant)
	influencer := seedUser(t, db, models.RoleInfluencer)
	campaign := seedCampaign(t, db, restaurant.ID, 10, 1000)
	submission := seedSubmission(t, db, campaign.ID, influencer.ID, models.SubmissionPending)

	_, err = service.UpdateStatus(ctx, other, submission.ID, models.SubmissionApproved)
	require.Error(t, err)

	stored, err := datastore.FindSubmissionByID(ctx, db, submission.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubmissionPending, stored.Status)
}

func TestSubmissionUpdateStatusFlushesStats(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newTestRedis(t)
	injector := newTestContainer(t, db, client)

	service, err := do.Invoke[*ServiceSubmission](injector)
	require.NoError(t, err)

	restaurant := seedUser(t, db, models.RoleRestaurant)
	influencer := seedUser(t, db, models.RoleInfluencer)
	campaign := seedCampaign(t, db, restaurant.ID, 10, 1000)
	submission := seedSubmission(t, db, campaign.ID, influencer.ID, models.SubmissionPending)

	require.NoError(t, client.Set(ctx, DBKeyStats(restaurant.ID), "cached", 0).Err())
	require.NoError(t, client.Set(ctx, DBKeyStats(influencer.ID), "cached", 0).Err())
	require.NoError(t, client.Set(ctx, DBKeyUser(restaurant.ID), "cached", 0).Err())

	_, err = service.UpdateStatus(ctx, restaurant, submission.ID, models.SubmissionApproved)
	require.NoError(t, err)

	n, err := client.Exists(ctx, DBKeyStats(restaurant.ID), DBKeyStats(influencer.ID)).Result()
	require.NoError(t, err)
	require.Zero(t, n)

	// only the stats namespace is flushed
	n, err = client.Exists(ctx, DBKeyUser(restaurant.ID)).Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
