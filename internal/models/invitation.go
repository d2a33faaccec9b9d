package models

import (
	"time"

	"github.com/uptrace/bun"
)

type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationCompleted InvitationStatus = "completed"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationDeclined, InvitationCompleted:
		return true
	default:
		return false
	}
}

// CanTransition reports whether an invitation may move from s to target.
// The influencer decides pending→accepted|declined; completion happens only
// when content is submitted against an accepted invitation.
func (s InvitationStatus) CanTransition(target InvitationStatus) bool {
	switch s {
	case InvitationPending:
		return target == InvitationAccepted || target == InvitationDeclined
	case InvitationAccepted:
		return target == InvitationCompleted
	default:
		return false
	}
}

type PrivateInvitation struct {
	bun.BaseModel `bun:"table:private_invitation"`

	ID           int64            `bun:"id,pk,autoincrement" json:"id"`
	RestaurantID int64            `bun:"restaurant_id" json:"restaurant_id"`
	InfluencerID *int64           `bun:"influencer_id" json:"influencer_id"`
	Title        string           `bun:"title" json:"title"`
	Description  string           `bun:"description" json:"description"`
	RewardAmount float64          `bun:"reward_amount" json:"reward_amount"`
	RewardViews  int              `bun:"reward_views" json:"reward_views"`
	InviteCode   string           `bun:"invite_code" json:"invite_code"`
	Status       InvitationStatus `bun:"status" json:"status"`
	ImageURL     *string          `bun:"image_url" json:"image_url"`
	CreatedAt    time.Time        `bun:"created_at,default:current_timestamp" json:"created_at"`
	ExpiresAt    *time.Time       `bun:"expires_at" json:"expires_at"`
}

func (i *PrivateInvitation) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// BoundTo reports whether the invitation is already tied to userID.
func (i *PrivateInvitation) BoundTo(userID int64) bool {
	return i.InfluencerID != nil && *i.InfluencerID == userID
}
