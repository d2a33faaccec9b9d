package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a restaurant review may move a submission
// from s to target. Decisions are final: approved and rejected have no exit.
func (s SubmissionStatus) CanTransition(target SubmissionStatus) bool {
	if s != SubmissionPending {
		return false
	}
	return target == SubmissionApproved || target == SubmissionRejected
}

type Submission struct {
	bun.BaseModel `bun:"table:submission"`

	ID           int64            `bun:"id,pk,autoincrement" json:"id"`
	CampaignID   int64            `bun:"campaign_id" json:"campaign_id"`
	InfluencerID int64            `bun:"influencer_id" json:"influencer_id"`
	InstagramURL string           `bun:"instagram_url" json:"instagram_url"`
	Status       SubmissionStatus `bun:"status" json:"status"`
	Views        int              `bun:"views" json:"views"`
	Likes        int              `bun:"likes" json:"likes"`
	Earnings     float64          `bun:"earnings" json:"earnings"`
	Notes        *string          `bun:"notes" json:"notes"`
	CreatedAt    time.Time        `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time        `bun:"updated_at" json:"updated_at"`

	Campaign *Campaign `bun:"rel:belongs-to,join:campaign_id=id" json:"campaign,omitempty"`
}

// PrivateSubmission is content submitted against a private invitation.
// It shares the submission lifecycle but is keyed by invitation.
type PrivateSubmission struct {
	bun.BaseModel `bun:"table:private_submission"`

	ID           int64            `bun:"id,pk,autoincrement" json:"id"`
	InvitationID int64            `bun:"invitation_id" json:"invitation_id"`
	InfluencerID int64            `bun:"influencer_id" json:"influencer_id"`
	InstagramURL string           `bun:"instagram_url" json:"instagram_url"`
	Status       SubmissionStatus `bun:"status" json:"status"`
	Views        int              `bun:"views" json:"views"`
	Likes        int              `bun:"likes" json:"likes"`
	Earnings     float64          `bun:"earnings" json:"earnings"`
	Notes        *string          `bun:"notes" json:"notes"`
	CreatedAt    time.Time        `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time        `bun:"updated_at" json:"updated_at"`

	Invitation *PrivateInvitation `bun:"rel:belongs-to,join:invitation_id=id" json:"invitation,omitempty"`
}
