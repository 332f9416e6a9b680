package services

import (
	"context"
	"errors"
	"log"
	"time"

	"fireuai/internal/datastore"
	"fireuai/internal/interfaces"
	"fireuai/internal/models"
	"fireuai/internal/pkg/caching"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceChallenge struct {
	container    *do.Injector
	postgresDB   *bun.DB
	redisDBCache redis.UniversalClient
	cache        caching.Cache
	limiter      interfaces.Limiter
	bot          *Bot

	serviceConfig *ServiceConfig
}

func NewServiceChallenge(container *do.Injector) (*ServiceChallenge, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	redisDBCache, err := do.InvokeNamed[redis.UniversalClient](container, "redis-cache")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	bot, err := do.Invoke[*Bot](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceChallenge{container, postgresDB, redisDBCache, cache, rateLimiter, bot, serviceConfig}, nil
}

func (service *ServiceChallenge) Create(ctx context.Context, name string, secret string, points int, eventName string, creatorID string, expiration *time.Time) (*models.Challenge, error) {
	challenge := &models.Challenge{
		Name:       name,
		Secret:     secret,
		Points:     points,
		CreatorID:  creatorID,
		Expiration: expiration,
		CreatedAt:  time.Now(),
	}

	if eventName != "" {
		eventID, err := datastore.EnsureEvent(ctx, service.postgresDB, eventName)
		if err != nil {
			return nil, err
		}
		challenge.EventID = &eventID
	}

	err := datastore.CreateChallenge(ctx, service.postgresDB, challenge)
	if err != nil {
		if errors.Is(err, datastore.ErrChallengeExists) {
			return nil, errorx.Wrap(err, errorx.Invalid)
		}
		return nil, err
	}

	_ = service.cache.Delete(ctx, DBKeyActiveChallenges())
	caching.DeleteKeys(ctx, service.redisDBCache, "challenges:remaining:*")

	return challenge, nil
}

// Redeem submits a flag on behalf of the user. Rate limited per user; the
// duplicate guard itself lives in the storage layer.
func (service *ServiceChallenge) Redeem(ctx context.Context, userID string, secret string) (*models.Challenge, error) {
	redeemLimit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_REDEEM_RATE_LIMIT, REDEEM_RATE_LIMIT_PER_MIN)
	err := service.limiter.Allow(ctx, LimitKeyRedeem(userID), redis_rate.PerMinute(redeemLimit))
	if err != nil {
		if err.Error() == limiter.ErrRateLimited.Error() {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	challenge, err := datastore.RedeemFlag(ctx, service.postgresDB, userID, secret)
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrChallengeNotFound):
			return nil, errorx.Wrap(err, errorx.NotExist)
		case errors.Is(err, datastore.ErrAlreadyRedeemed):
			return nil, errorx.Wrap(err, errorx.Invalid)
		case errors.Is(err, datastore.ErrUserNotFound):
			return nil, errorx.Wrap(err, errorx.Authn)
		}
		return nil, err
	}

	_ = service.cache.Delete(ctx, DBKeyUser(userID))
	_ = service.cache.Delete(ctx, DBKeyRemainingChallenges(userID))
	service.ClearRankingCache(ctx)

	service.announceFirstBlood(ctx, challenge, userID)

	return challenge, nil
}

func (service *ServiceChallenge) ClearRankingCache(ctx context.Context) {
	//nolint:errcheck
	caching.DeleteKeys(ctx, service.redisDBCache, "ranking:*")
}

// announceFirstBlood is best effort; the redemption already committed.
func (service *ServiceChallenge) announceFirstBlood(ctx context.Context, challenge *models.Challenge, userID string) {
	chatID, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_ANNOUNCE_CHAT_ID, 0)
	if chatID == 0 {
		return
	}

	solve, err := datastore.FirstSolver(ctx, service.postgresDB, challenge.Name)
	if err != nil || solve == nil || solve.UserID != userID {
		return
	}

	user, err := datastore.FindUserByID(ctx, service.postgresDB, userID)
	if err != nil {
		return
	}

	if err := service.bot.AnnounceFirstBlood(int64(chatID), user.Nickname, challenge.Name); err != nil {
		log.Printf("first blood announcement failed: %v", err)
	}
}

func (service *ServiceChallenge) GetChallenge(ctx context.Context, name string) (*models.Challenge, error) {
	challenge, err := datastore.FindChallengeByName(ctx, service.postgresDB, name)
	if err != nil {
		if errors.Is(err, datastore.ErrChallengeNotFound) {
			return nil, errorx.Wrap(err, errorx.NotExist)
		}
		return nil, err
	}

	return challenge, nil
}

func (service *ServiceChallenge) ActiveChallenges(ctx context.Context) ([]*models.ChallengeInfo, error) {
	callback := func() ([]*models.ChallengeInfo, error) {
		return datastore.ActiveChallenges(ctx, service.postgresDB, time.Now())
	}

	return caching.UseCache(ctx, service.cache, DBKeyActiveChallenges(), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceChallenge) RemainingChallenges(ctx context.Context, userID string) ([]*models.ChallengeInfo, error) {
	callback := func() ([]*models.ChallengeInfo, error) {
		return datastore.RemainingChallenges(ctx, service.postgresDB, userID, time.Now())
	}

	return caching.UseCache(ctx, service.cache, DBKeyRemainingChallenges(userID), CACHE_TTL_5_SECONDS, callback)
}

func (service *ServiceChallenge) SolveCount(ctx context.Context, name string) (int, error) {
	if _, err := service.GetChallenge(ctx, name); err != nil {
		return 0, err
	}
	return datastore.SolveCount(ctx, service.postgresDB, name)
}

// FirstBlood resolves the first non-admin solver's nickname, or "" when the
// challenge is still unsolved.
func (service *ServiceChallenge) FirstBlood(ctx context.Context, name string) (string, error) {
	if _, err := service.GetChallenge(ctx, name); err != nil {
		return "", err
	}

	solve, err := datastore.FirstSolver(ctx, service.postgresDB, name)
	if err != nil {
		return "", err
	}
	if solve == nil {
		return "", nil
	}

	user, err := datastore.FindUserByID(ctx, service.postgresDB, solve.UserID)
	if err != nil {
		return "", err
	}

	return user.Nickname, nil
}
