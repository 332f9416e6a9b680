package services

import (
	"fmt"
	"strings"
	"time"

	"fireuai/internal/models"
)

const (
	CONFIG_SERVER_MODE       = "SERVER_MODE"
	CONFIG_RANKING_LIMIT     = "RANKING_LIMIT"
	CONFIG_ANNOUNCE_CHAT_ID  = "ANNOUNCE_CHAT_ID"
	CONFIG_WEEKLY_EVENT_NAME = "WEEKLY_EVENT_NAME"
	CONFIG_REDEEM_RATE_LIMIT = "REDEEM_RATE_LIMIT"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	RANKING_DEFAULT_LIMIT     = 20
	WEEKLY_EVENT_DEFAULT_NAME = "Desafios_Semanais"
	REDEEM_RATE_LIMIT_PER_MIN = 10

	HINT_PRICE_BASIC = 1000
	HINT_PRICE_PLUS  = 2500

	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_1_MIN     = 1 * time.Minute
	CACHE_TTL_5_MINS    = 5 * time.Minute
)

func HintPrice(tier models.HintTier) int {
	if tier == models.HintPlus {
		return HINT_PRICE_PLUS
	}
	return HINT_PRICE_BASIC
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyUser(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func DBKeyRanking(limit int) string {
	return fmt.Sprintf("ranking:overall:%d", limit)
}

func DBKeyEventRanking(eventName string, limit int) string {
	return fmt.Sprintf("ranking:event:%s:%d", strings.ToLower(eventName), limit)
}

func DBKeyActiveChallenges() string {
	return "challenges:active"
}

func DBKeyRemainingChallenges(userID string) string {
	return fmt.Sprintf("challenges:remaining:%s", userID)
}

func DBKeyHintAvailability(challengeName string) string {
	return fmt.Sprintf("hints:%s", strings.ToLower(challengeName))
}

func LimitKeyRedeem(userID string) string {
	return fmt.Sprintf("limit:redeem:%s", userID)
}

func LockKeyRankingJob() string {
	return "lock:ranking-job"
}

func LockKeyExpiryJob() string {
	return "lock:expiry-job"
}
