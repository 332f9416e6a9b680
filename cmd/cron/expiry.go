package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"fireuai/internal/datastore"
	"fireuai/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

// ExpiryJob warns the announcement channel about challenges closing within
// the next day. A redis marker keeps each challenge to a single warning.
type ExpiryJob struct {
	redis redis.UniversalClient
	db    *bun.DB
	rs    *redsync.Redsync
	bot   *services.Bot
}

func NewExpiryJob(redisCache redis.UniversalClient, db *bun.DB, rs *redsync.Redsync, botToken string) *ExpiryJob {
	bot, _ := services.NewBot(botToken)
	return &ExpiryJob{redisCache, db, rs, bot}
}

func (j *ExpiryJob) Start(cronRunner *cron.Cron) {
	schedule := "@hourly"
	timeline, err := datastore.GetConfigByKey(context.Background(), j.db, "CRONJOB_TIME_EXPIRY")
	if err == nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Expiry cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
}

func (j *ExpiryJob) runScheduledTask() {
	ctx := context.Background()

	mutex := j.rs.NewMutex(services.LockKeyExpiryJob(), redsync.WithExpiry(30*time.Second))
	if err := mutex.TryLockContext(ctx); err != nil {
		return
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	config, err := datastore.GetConfigByKey(ctx, j.db, services.CONFIG_ANNOUNCE_CHAT_ID)
	if err != nil {
		return
	}
	chatID, err := strconv.ParseInt(config.Value, 10, 64)
	if err != nil || chatID == 0 {
		return
	}

	now := time.Now()
	challenges, err := datastore.ChallengesExpiringBetween(ctx, j.db, now, now.Add(24*time.Hour))
	if err != nil {
		log.Println("expiry scan failed:", err)
		return
	}

	for _, challenge := range challenges {
		marker := fmt.Sprintf("announced:expiry:%s", challenge.Name)
		set, err := j.redis.SetNX(ctx, marker, "1", 48*time.Hour).Result()
		if err != nil || !set {
			continue
		}

		text := fmt.Sprintf("⏰ <b>%s</b> (%d pts) closes at %s. Last call!",
			challenge.Name, challenge.Points, challenge.Expiration.Format("2006-01-02 15:04 MST"))
		if err := j.bot.SendMsg(chatID, text); err != nil {
			log.Println("expiry announcement failed:", err)
		}
	}
}
