package services

import (
	"context"
	"database/sql"
	"testing"

	"fireuai/internal/datastore"
	"fireuai/internal/interfaces"
	"fireuai/internal/models"
	"fireuai/internal/pkg/caching"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// stubLimiter allows everything until denied is flipped.
type stubLimiter struct {
	denied bool
}

func (l *stubLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	if l.denied {
		return limiter.ErrRateLimited
	}
	return nil
}

func newTestContainer(t *testing.T) (*do.Injector, *bun.DB, *stubLimiter) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	if err := datastore.CreateTables(context.Background(), db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	stub := &stubLimiter{}

	injector := do.New()
	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return db, nil
	})
	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		return caching.NewCacheLocal(), nil
	})
	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		// nothing listens here; pattern invalidation degrades to a no-op
		return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), nil
	})
	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		return stub, nil
	})
	do.Provide(injector, func(i *do.Injector) (*Bot, error) {
		return NewBot("")
	})
	do.Provide(injector, NewServiceConfig)
	do.Provide(injector, NewServiceUser)
	do.Provide(injector, NewServiceChallenge)
	do.Provide(injector, NewServiceHint)
	do.Provide(injector, NewServiceLeaderboard)

	return injector, db, stub
}

func seedChallenge(t *testing.T, injector *do.Injector, name, secret string, points int, eventName string) {
	t.Helper()
	serviceChallenge, err := do.Invoke[*ServiceChallenge](injector)
	if err != nil {
		t.Fatalf("invoke challenge service: %v", err)
	}
	if _, err := serviceChallenge.Create(context.Background(), name, secret, points, eventName, "creator", nil); err != nil {
		t.Fatalf("create challenge %s: %v", name, err)
	}
}

func seedUser(t *testing.T, injector *do.Injector, userID, nickname string) {
	t.Helper()
	serviceUser, err := do.Invoke[*ServiceUser](injector)
	if err != nil {
		t.Fatalf("invoke user service: %v", err)
	}
	if err := serviceUser.Register(context.Background(), userID, nickname); err != nil {
		t.Fatalf("register %s: %v", userID, err)
	}
}

func seedConfig(t *testing.T, db *bun.DB, key, value string) {
	t.Helper()
	err := datastore.InsertConfig(context.Background(), db, models.Config{Key: key, Value: value})
	if err != nil {
		t.Fatalf("insert config %s: %v", key, err)
	}
}
