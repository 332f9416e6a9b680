package services

import (
	"context"

	"fireuai/internal/datastore"
	"fireuai/internal/models"
	"fireuai/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceLeaderboard struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache

	serviceConfig *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{container, postgresDB, cache, serviceConfig}, nil
}

func (service *ServiceLeaderboard) GetRanking(ctx context.Context) ([]*models.RankingRow, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_RANKING_LIMIT, RANKING_DEFAULT_LIMIT)

	callback := func() ([]*models.RankingRow, error) {
		return datastore.RankingByPoints(ctx, service.postgresDB, limit)
	}

	return caching.UseCache(ctx, service.cache, DBKeyRanking(limit), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceLeaderboard) GetEventRanking(ctx context.Context, eventName string) ([]*models.EventRankingRow, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_RANKING_LIMIT, RANKING_DEFAULT_LIMIT)

	callback := func() ([]*models.EventRankingRow, error) {
		return datastore.RankingByEvent(ctx, service.postgresDB, eventName, limit)
	}

	return caching.UseCache(ctx, service.cache, DBKeyEventRanking(eventName, limit), CACHE_TTL_1_MIN, callback)
}

// GetWeeklyRanking is the ranking of the rolling weekly event.
func (service *ServiceLeaderboard) GetWeeklyRanking(ctx context.Context) ([]*models.EventRankingRow, error) {
	eventName, _ := service.serviceConfig.GetStringConfig(ctx, CONFIG_WEEKLY_EVENT_NAME, WEEKLY_EVENT_DEFAULT_NAME)
	return service.GetEventRanking(ctx, eventName)
}
