package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fireuai/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Reward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Reward)(nil)).Index("index_reward_challenge_id").IfNotExists().Column("challenge_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// RedeemFlag is the core transaction: resolve the secret, insert the reward
// row, credit points and coins, log the credit. All of it commits or none of
// it does. The composite primary key on reward is the only duplicate guard;
// under concurrent attempts exactly one insert survives and the rest surface
// ErrAlreadyRedeemed with the whole transaction rolled back.
func RedeemFlag(ctx context.Context, db *bun.DB, userID string, secret string) (*models.Challenge, error) {
	var challenge models.Challenge

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(&challenge).Where("secret = ?", secret).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrChallengeNotFound
			}
			return err
		}

		reward := &models.Reward{
			UserID:      userID,
			ChallengeID: challenge.ID,
			RedeemedAt:  time.Now(),
		}
		if _, err := tx.NewInsert().Model(reward).Exec(ctx); err != nil {
			if IsUniqueViolation(err) {
				return ErrAlreadyRedeemed
			}
			return err
		}

		res, err := tx.NewUpdate().Model((*models.User)(nil)).
			Set("points = points + ?", challenge.Points).
			Set("coins = coins + ?", challenge.Points).
			Where("id = ?", userID).
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

		return insertCoinTxn(ctx, tx, userID, challenge.Points, fmt.Sprintf("redeem:%s", challenge.Name))
	})
	if err != nil {
		return nil, err
	}

	return &challenge, nil
}

// SolveCount counts redemptions of the named challenge, admins included.
func SolveCount(ctx context.Context, db *bun.DB, challengeName string) (int, error) {
	count, err := db.NewSelect().
		TableExpr("reward AS r").
		Join("JOIN challenge AS c ON c.id = r.challenge_id").
		Where("c.name = ?", challengeName).
		Count(ctx)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// FirstSolver returns the earliest non-admin redemption, or nil when the
// challenge has no solves yet.
func FirstSolver(ctx context.Context, db *bun.DB, challengeName string) (*models.FirstSolve, error) {
	var solve models.FirstSolve
	err := db.NewSelect().
		ColumnExpr("u.id AS user_id, r.redeemed_at").
		TableExpr("reward AS r").
		Join("JOIN challenge AS c ON c.id = r.challenge_id").
		Join("JOIN \"user\" AS u ON u.id = r.user_id").
		Where("c.name = ?", challengeName).
		Where("u.role != ?", models.RoleAdmin).
		OrderExpr("r.redeemed_at ASC").
		Limit(1).
		Scan(ctx, &solve)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &solve, nil
}

// RankingByEvent sums redeemed challenge points inside one event, non-admins
// only, best first.
func RankingByEvent(ctx context.Context, db *bun.DB, eventName string, limit int) ([]*models.EventRankingRow, error) {
	var rows []*models.EventRankingRow
	err := db.NewSelect().
		ColumnExpr("u.nickname, SUM(c.points) AS total_points").
		TableExpr("reward AS r").
		Join("JOIN challenge AS c ON c.id = r.challenge_id").
		Join("JOIN \"user\" AS u ON u.id = r.user_id").
		Join("JOIN event AS e ON e.id = c.event_id").
		Where("e.name = ?", eventName).
		Where("u.role != ?", models.RoleAdmin).
		GroupExpr("u.id, u.nickname").
		OrderExpr("total_points DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
