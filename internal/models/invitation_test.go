package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInvitationStatusTransitions(t *testing.T) {
	require.True(t, InvitationPending.CanTransition(InvitationAccepted))
	require.True(t, InvitationPending.CanTransition(InvitationDeclined))
	require.False(t, InvitationPending.CanTransition(InvitationCompleted))

	// completion only follows acceptance
	require.True(t, InvitationAccepted.CanTransition(InvitationCompleted))
	require.False(t, InvitationAccepted.CanTransition(InvitationDeclined))
	require.False(t, InvitationAccepted.CanTransition(InvitationPending))

	require.False(t, InvitationDeclined.CanTransition(InvitationAccepted))
	require.False(t, InvitationCompleted.CanTransition(InvitationAccepted))
}

func TestInvitationExpired(t *testing.T) {
	now := time.Now()

	open := &PrivateInvitation{}
	require.False(t, open.Expired(now), "no expiry means never expired")

	past := now.Add(-time.Hour)
	expired := &PrivateInvitation{ExpiresAt: &past}
	require.True(t, expired.Expired(now))

	future := now.Add(time.Hour)
	live := &PrivateInvitation{ExpiresAt: &future}
	require.False(t, live.Expired(now))
}

func TestInvitationBoundTo(t *testing.T) {
	unbound := &PrivateInvitation{}
	require.False(t, unbound.BoundTo(7))

	influencerID := int64(7)
	bound := &PrivateInvitation{InfluencerID: &influencerID}
	require.True(t, bound.BoundTo(7))
	require.False(t, bound.BoundTo(8))
}
