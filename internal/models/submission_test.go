package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmissionStatusValid(t *testing.T) {
	require.True(t, SubmissionPending.Valid())
	require.True(t, SubmissionApproved.Valid())
	require.True(t, SubmissionRejected.Valid())
	require.False(t, SubmissionStatus("archived").Valid())
	require.False(t, SubmissionStatus("").Valid())
}

func TestSubmissionStatusTransitions(t *testing.T) {
	require.True(t, SubmissionPending.CanTransition(SubmissionApproved))
	require.True(t, SubmissionPending.CanTransition(SubmissionRejected))

	// approved and rejected are terminal
	require.False(t, SubmissionApproved.CanTransition(SubmissionRejected))
	require.False(t, SubmissionApproved.CanTransition(SubmissionPending))
	require.False(t, SubmissionRejected.CanTransition(SubmissionApproved))
	require.False(t, SubmissionRejected.CanTransition(SubmissionPending))
}
