package services

import (
	"fmt"
	"time"
)

const (
	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_PRODUCTION  = "production"

	CACHE_TTL_1_MIN   = 1 * time.Minute
	CACHE_TTL_5_MINS  = 5 * time.Minute
	CACHE_TTL_15_MINS = 15 * time.Minute

	TOKEN_TTL = 7 * 24 * time.Hour

	AUTH_RATE_LIMIT_PER_MINUTE = 10

	RANKING_DEFAULT_LIMIT = 10
	RANKING_MAX_LIMIT     = 100

	INVITE_CODE_LENGTH = 10

	PERFORMANCE_LOCK_EXPIRY = 8 * time.Second

	LINK_PROBE_TIMEOUT = 5 * time.Second
	LINK_PROBE_RETRIES = 2
)

// locks
func LockKeySubmissionPerformance(submissionID int64) string {
	return fmt.Sprintf("lock:performance:submission:%d", submissionID)
}

func LockKeyPrivateSubmissionPerformance(submissionID int64) string {
	return fmt.Sprintf("lock:performance:private_submission:%d", submissionID)
}

// cache
func DBKeyUser(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

func DBKeyCampaign(campaignID int64) string {
	return fmt.Sprintf("campaign:%d", campaignID)
}

func DBKeyCampaigns() string {
	return "campaigns:all"
}

func DBKeyCampaignsByRestaurant(restaurantID int64) string {
	return fmt.Sprintf("campaigns:restaurant:%d", restaurantID)
}

func DBKeyStats(userID int64) string {
	return fmt.Sprintf("stats:%d", userID)
}

func DBKeyStatsPattern() string {
	return "stats:*"
}

// denylist
func DBKeyRevokedToken(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// limits
func LimitKeyAuth(ip string) string {
	return fmt.Sprintf("limit:auth:%s", ip)
}
