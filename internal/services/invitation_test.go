package services

import (
	"context"
	"strings"
	"testing"

	"viralbite/internal/datastore"
	"viralbite/internal/models"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

func TestNewInviteCode(t *testing.T) {
	code := NewInviteCode()
	require.Len(t, code, INVITE_CODE_LENGTH)
	require.Equal(t, strings.ToUpper(code), code)
	require.NotContains(t, code, "-")
}

func TestNewInviteCodeUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		code := NewInviteCode()
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestRedeemBindsCodeToFirstInfluencer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newTestRedis(t)
	injector := newTestContainer(t, db, client)

	service, err := do.Invoke[*ServiceInvitation](injector)
	require.NoError(t, err)

	restaurant := seedUser(t, db, models.RoleRestaurant)
	first := seedUser(t, db, models.RoleInfluencer)
	second := seedUser(t, db, models.RoleInfluencer)
	invitation := seedInvitation(t, db, restaurant.ID, models.InvitationPending, nil)

	redeemed, err := service.Redeem(ctx, first, invitation.InviteCode)
	require.NoError(t, err)
	require.NotNil(t, redeemed.InfluencerID)
	require.Equal(t, first.ID, *redeemed.InfluencerID)

	// the code behaves as nonexistent for everyone else
	_, err = service.Redeem(ctx, second, invitation.InviteCode)
	require.Error(t, err)

	// the holder can resolve it again
	again, err := service.Redeem(ctx, first, invitation.InviteCode)
	require.NoError(t, err)
	require.Equal(t, first.ID, *again.InfluencerID)

	stored, err := datastore.FindInvitationByID(ctx, db, invitation.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, *stored.InfluencerID)
}

func TestInvitationUpdateStatusDecisionIsFinal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	client := newTestRedis(t)
	injector := newTestContainer(t, db, client)

	service, err := do.Invoke[*ServiceInvitation](injector)
	require.NoError(t, err)

	restaurant := seedUser(t, db, models.RoleRestaurant)
	influencer := seedUser(t, db, models.RoleInfluencer)
	invitation := seedInvitation(t, db, restaurant.ID, models.InvitationPending, &influencer.ID)

	accepted, err := service.UpdateStatus(ctx, influencer, invitation.ID, models.InvitationAccepted)
	require.NoError(t, err)
	require.Equal(t, models.InvitationAccepted, accepted.Status)

	// re-asserting the same decision is a no-op
	again, err := service.UpdateStatus(ctx, influencer, invitation.ID, models.InvitationAccepted)
	require.NoError(t, err)
	require.Equal(t, models.InvitationAccepted, again.Status)

	// flipping after the decision is rejected
	_, err = service.UpdateStatus(ctx, influencer, invitation.ID, models.InvitationDeclined)
	require.Error(t, err)

	stored, err := datastore.FindInvitationByID(ctx, db, invitation.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationAccepted, stored.Status)
}
