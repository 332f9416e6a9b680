package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"fireuai/internal/datastore"
	"fireuai/internal/pkg/caching"
	"fireuai/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/uptrace/bun"
)

// RankingJob rebuilds the cached overall ranking so the first reader after an
// expiry does not pay for the query.
type RankingJob struct {
	redis redis.UniversalClient
	db    *bun.DB
	rs    *redsync.Redsync
	cache caching.Cache
}

func NewRankingJob(redisCache redis.UniversalClient, db *bun.DB, rs *redsync.Redsync) *RankingJob {
	cache, _ := caching.NewCacheRedis(redisCache, false)
	return &RankingJob{redisCache, db, rs, cache}
}

func (j *RankingJob) Start(cronRunner *cron.Cron) {
	schedule := "@every 5m"
	timeline, err := datastore.GetConfigByKey(context.Background(), j.db, "CRONJOB_TIME_RANKING")
	if err == nil && timeline.Value != "" {
		schedule = timeline.Value
	}

	_, err = cronRunner.AddFunc(schedule, j.runScheduledTask)
	log.Println("Ranking cronjob start at:", time.Now().Format("2006-01-02 15:04:05"), "cron:", schedule, err)
}

func (j *RankingJob) runScheduledTask() {
	ctx := context.Background()

	// one runner per tick across replicas
	mutex := j.rs.NewMutex(services.LockKeyRankingJob(), redsync.WithExpiry(30*time.Second))
	if err := mutex.TryLockContext(ctx); err != nil {
		return
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	//nolint:errcheck
	caching.DeleteKeys(ctx, j.redis, "ranking:*")

	limit := services.RANKING_DEFAULT_LIMIT
	if config, err := datastore.GetConfigByKey(ctx, j.db, services.CONFIG_RANKING_LIMIT); err == nil {
		if v, err := strconv.Atoi(config.Value); err == nil && v > 0 {
			limit = v
		}
	}

	rows, err := datastore.RankingByPoints(ctx, j.db, limit)
	if err != nil {
		log.Println("ranking refresh failed:", err)
		return
	}

	if err := j.cache.Set(ctx, services.DBKeyRanking(limit), rows, services.CACHE_TTL_5_MINS); err != nil {
		log.Println("ranking cache warm failed:", err)
	}
}
