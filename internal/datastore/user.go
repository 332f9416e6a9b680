package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fireuai/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_user_nickname").IfNotExists().Column("nickname").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// RegisterUser inserts a new member with zero balances. The primary key on the
// identity string is the duplicate guard.
func RegisterUser(ctx context.Context, db *bun.DB, userID string, nickname string) error {
	user := &models.User{
		ID:        userID,
		Nickname:  nickname,
		Role:      models.RoleMember,
		CreatedAt: time.Now(),
	}

	_, err := db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrAlreadyRegistered
		}
		return err
	}

	return nil
}

func UserExists(ctx context.Context, db *bun.DB, userID string) (bool, error) {
	return db.NewSelect().Model((*models.User)(nil)).Where("id = ?", userID).Exists(ctx)
}

// IsAdmin returns false, not an error, for unknown users.
func IsAdmin(ctx context.Context, db *bun.DB, userID string) (bool, error) {
	return db.NewSelect().Model((*models.User)(nil)).
		Where("id = ?", userID).
		Where("role = ?", models.RoleAdmin).
		Exists(ctx)
}

func FindUserByID(ctx context.Context, db *bun.DB, userID string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func FindUserByNickname(ctx context.Context, db *bun.DB, nickname string) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("nickname = ?", nickname).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// PromoteUser flips the user matching nickname to admin. An unknown nickname
// is reported, never silently ignored.
func PromoteUser(ctx context.Context, db *bun.DB, nickname string) error {
	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("role = ?", models.RoleAdmin).
		Where("nickname = ?", nickname).
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RankingByPoints returns the top non-admin users by points. Order among equal
// points is whatever the engine picks.
func RankingByPoints(ctx context.Context, db *bun.DB, limit int) ([]*models.RankingRow, error) {
	var rows []*models.RankingRow
	err := db.NewSelect().Model((*models.User)(nil)).
		Column("nickname", "points").
		Where("role != ?", models.RoleAdmin).
		OrderExpr("points DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
