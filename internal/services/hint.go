package services

import (
	"context"
	"errors"

	"fireuai/internal/datastore"
	"fireuai/internal/models"
	"fireuai/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceHint struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceHint(container *do.Injector) (*ServiceHint, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceHint{container, postgresDB, cache}, nil
}

func (service *ServiceHint) CreateHint(ctx context.Context, challengeName string, tier models.HintTier, text string) error {
	err := datastore.CreateHint(ctx, service.postgresDB, challengeName, tier, text)
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrChallengeNotFound):
			return errorx.Wrap(err, errorx.NotExist)
		case errors.Is(err, datastore.ErrHintExists):
			return errorx.Wrap(err, errorx.Invalid)
		}
		return err
	}

	_ = service.cache.Delete(ctx, DBKeyHintAvailability(challengeName))
	return nil
}

func (service *ServiceHint) Availability(ctx context.Context, challengeName string) (*models.HintAvailability, error) {
	callback := func() (*models.HintAvailability, error) {
		return datastore.HintAvailability(ctx, service.postgresDB, challengeName)
	}

	availability, err := caching.UseCache(ctx, service.cache, DBKeyHintAvailability(challengeName), CACHE_TTL_1_MIN, callback)
	if err != nil {
		if errors.Is(err, datastore.ErrChallengeNotFound) {
			return nil, errorx.Wrap(err, errorx.NotExist)
		}
		return nil, err
	}

	return availability, nil
}

// Purchase debits the fixed tier price and returns the hint text.
func (service *ServiceHint) Purchase(ctx context.Context, userID string, challengeName string, tier models.HintTier) (string, error) {
	price := HintPrice(tier)

	text, err := datastore.PurchaseHint(ctx, service.postgresDB, userID, challengeName, tier, price)
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrUserNotFound):
			return "", errorx.Wrap(err, errorx.Authn)
		case errors.Is(err, datastore.ErrHintNotFound):
			return "", errorx.Wrap(err, errorx.NotExist)
		case errors.Is(err, datastore.ErrInsufficientCoins):
			return "", errorx.Wrap(err, errorx.Invalid)
		}
		return "", err
	}

	_ = service.cache.Delete(ctx, DBKeyUser(userID))
	return text, nil
}
