package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Campaign struct {
	bun.BaseModel `bun:"table:campaign"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	RestaurantID int64     `bun:"restaurant_id" json:"restaurant_id"`
	Title        string    `bun:"title" json:"title"`
	Description  string    `bun:"description" json:"description"`
	RewardAmount float64   `bun:"reward_amount" json:"reward_amount"`
	RewardViews  int       `bun:"reward_views" json:"reward_views"`
	CreatedAt    time.Time `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at" json:"updated_at"`
}

// CampaignRankingItem is one entry of the redis-backed campaign ranking,
// scored by total approved views.
type CampaignRankingItem struct {
	CampaignID int64   `json:"campaign_id"`
	Title      string  `json:"title"`
	Views      float64 `json:"views"`
	Rank       int     `json:"rank"`
}
