package models

// CampaignStats is the per-campaign aggregation served to restaurant
// dashboards. Ratios are 0 whenever their denominator is 0.
type CampaignStats struct {
	CampaignID          int64   `json:"campaign_id"`
	Title               string  `json:"title"`
	Submissions         int     `json:"submissions"`
	ApprovedSubmissions int     `json:"approved_submissions"`
	Views               int     `json:"views"`
	Likes               int     `json:"likes"`
	Earnings            float64 `json:"earnings"`
	AvgViewsPerApproved float64 `json:"avg_views_per_approved"`
	EarningsPer1000     float64 `json:"earnings_per_1000_views"`
}

// InfluencerStats summarizes one influencer's own submissions.
type InfluencerStats struct {
	Submissions         int     `json:"submissions"`
	ApprovedSubmissions int     `json:"approved_submissions"`
	PendingSubmissions  int     `json:"pending_submissions"`
	Views               int     `json:"views"`
	Likes               int     `json:"likes"`
	Earnings            float64 `json:"earnings"`
}

// PlatformStats is the admin-wide rollup.
type PlatformStats struct {
	Campaigns           int     `json:"campaigns"`
	Submissions         int     `json:"submissions"`
	ApprovedSubmissions int     `json:"approved_submissions"`
	Views               int     `json:"views"`
	Earnings            float64 `json:"earnings"`
}
