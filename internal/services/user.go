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

type ServiceUser struct {
	container  *do.Injector
	postgresDB *bun.DB
	cache      caching.Cache
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, postgresDB, cache}, nil
}

func (service *ServiceUser) Register(ctx context.Context, userID string, nickname string) error {
	err := datastore.RegisterUser(ctx, service.postgresDB, userID, nickname)
	if err != nil {
		if errors.Is(err, datastore.ErrAlreadyRegistered) {
			return errorx.Wrap(err, errorx.Invalid)
		}
		return err
	}

	return nil
}

func (service *ServiceUser) IsRegistered(ctx context.Context, userID string) (bool, error) {
	return datastore.UserExists(ctx, service.postgresDB, userID)
}

func (service *ServiceUser) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return datastore.IsAdmin(ctx, service.postgresDB, userID)
}

func (service *ServiceUser) GetUser(ctx context.Context, userID string) (*models.User, error) {
	callback := func() (*models.User, error) {
		return datastore.FindUserByID(ctx, service.postgresDB, userID)
	}

	user, err := caching.UseCache(ctx, service.cache, DBKeyUser(userID), CACHE_TTL_5_SECONDS, callback)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return nil, errorx.Wrap(err, errorx.NotExist)
		}
		return nil, err
	}

	return user, nil
}

func (service *ServiceUser) GetPoints(ctx context.Context, userID string) (int, error) {
	user, err := service.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}

func (service *ServiceUser) GetCoins(ctx context.Context, userID string) (int, error) {
	user, err := service.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Coins, nil
}

// Promote grants admin by nickname, the way an operator refers to a player.
func (service *ServiceUser) Promote(ctx context.Context, nickname string) error {
	user, err := datastore.FindUserByNickname(ctx, service.postgresDB, nickname)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return errorx.Wrap(err, errorx.NotExist)
		}
		return err
	}

	if err := datastore.PromoteUser(ctx, service.postgresDB, nickname); err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return errorx.Wrap(err, errorx.NotExist)
		}
		return err
	}

	_ = service.cache.Delete(ctx, DBKeyUser(user.ID))
	return nil
}

func (service *ServiceUser) CoinHistory(ctx context.Context, userID string, limit int) ([]*models.CoinTxn, error) {
	return datastore.GetCoinTxnsByUser(ctx, service.postgresDB, userID, limit)
}
