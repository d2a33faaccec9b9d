package datastore

import (
	"context"
	"testing"
	"time"

	"viralbite/internal/models"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func seedTestInvitation(t *testing.T, db *bun.DB, status models.InvitationStatus, influencerID *int64) *models.PrivateInvitation {
	t.Helper()

	invitation := &models.PrivateInvitation{
		RestaurantID: 1,
		InfluencerID: influencerID,
		Title:        "Chef's table night",
		RewardAmount: 50,
		RewardViews:  1000,
		InviteCode:   "TESTCODE01",
		Status:       status,
		CreatedAt:    time.Now(),
	}
	_, err := CreateInvitation(context.Background(), db, invitation)
	require.NoError(t, err)
	return invitation
}

func TestBindInvitationInfluencerOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	invitation := seedTestInvitation(t, db, models.InvitationPending, nil)

	bound, err := BindInvitationInfluencer(ctx, db, invitation.ID, 10)
	require.NoError(t, err)
	require.True(t, bound)

	// the second claim loses; the row keeps the first binding
	bound, err = BindInvitationInfluencer(ctx, db, invitation.ID, 20)
	require.NoError(t, err)
	require.False(t, bound)

	stored, err := FindInvitationByID(ctx, db, invitation.ID)
	require.NoError(t, err)
	require.EqualValues(t, 10, *stored.InfluencerID)
}

func TestUpdateInvitationStatusGuardsTransition(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	influencerID := int64(10)
	invitation := seedTestInvitation(t, db, models.InvitationPending, &influencerID)

	updated, err := UpdateInvitationStatus(ctx, db, invitation.ID, models.InvitationPending, models.InvitationAccepted)
	require.NoError(t, err)
	require.True(t, updated)

	// the pending guard no longer matches
	updated, err = UpdateInvitationStatus(ctx, db, invitation.ID, models.InvitationPending, models.InvitationDeclined)
	require.NoError(t, err)
	require.False(t, updated)

	// completion moves from accepted, exactly once
	updated, err = UpdateInvitationStatus(ctx, db, invitation.ID, models.InvitationAccepted, models.InvitationCompleted)
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = UpdateInvitationStatus(ctx, db, invitation.ID, models.InvitationAccepted, models.InvitationCompleted)
	require.NoError(t, err)
	require.False(t, updated)

	stored, err := FindInvitationByID(ctx, db, invitation.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationCompleted, stored.Status)
}

func TestDeleteExpiredPendingInvitations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := seedTestInvitation(t, db, models.InvitationPending, nil)
	expired.ExpiresAt = &past
	_, err := db.NewUpdate().Model(expired).WherePK().Exec(ctx)
	require.NoError(t, err)

	alive := &models.PrivateInvitation{
		RestaurantID: 1,
		Title:        "Still open",
		RewardAmount: 50,
		RewardViews:  1000,
		InviteCode:   "TESTCODE02",
		Status:       models.InvitationPending,
		CreatedAt:    now,
		ExpiresAt:    &future,
	}
	_, err = CreateInvitation(ctx, db, alive)
	require.NoError(t, err)

	deleted, err := DeleteExpiredPendingInvitations(ctx, db, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	_, err = FindInvitationByID(ctx, db, alive.ID)
	require.NoError(t, err)
}
