package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fireuai/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableHint(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Hint)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// CreateHint attaches a hint to the named challenge. The composite unique
// constraint on (challenge_id, tier) keeps it to one hint per tier.
func CreateHint(ctx context.Context, db *bun.DB, challengeName string, tier models.HintTier, text string) error {
	challenge, err := FindChallengeByName(ctx, db, challengeName)
	if err != nil {
		return err
	}

	hint := &models.Hint{
		ChallengeID: challenge.ID,
		Tier:        tier,
		Text:        text,
	}
	_, err = db.NewInsert().Model(hint).Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrHintExists
		}
		return err
	}

	return nil
}

func HintAvailability(ctx context.Context, db *bun.DB, challengeName string) (*models.HintAvailability, error) {
	challenge, err := FindChallengeByName(ctx, db, challengeName)
	if err != nil {
		return nil, err
	}

	var hints []*models.Hint
	err = db.NewSelect().Model(&hints).Where("challenge_id = ?", challenge.ID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	availability := &models.HintAvailability{}
	for _, hint := range hints {
		switch hint.Tier {
		case models.HintBasic:
			availability.Basic = true
		case models.HintPlus:
			availability.Plus = true
		}
	}

	return availability, nil
}

// PurchaseHint debits the tier price and returns the hint text in one
// transaction. The balance pre-check gives the cheap answer; the conditional
// update (coins >= price) is what actually keeps balances non-negative under
// concurrent purchases.
func PurchaseHint(ctx context.Context, db *bun.DB, userID string, challengeName string, tier models.HintTier, price int) (string, error) {
	var text string

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var user models.User
		err := tx.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}

		if user.Coins < price {
			return ErrInsufficientCoins
		}

		var hint models.Hint
		err = tx.NewSelect().Model(&hint).
			Join("JOIN challenge AS c ON c.id = hint.challenge_id").
			Where("c.name = ?", challengeName).
			Where("hint.tier = ?", tier).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrHintNotFound
			}
			return err
		}

		res, err := tx.NewUpdate().Model((*models.User)(nil)).
			Set("coins = coins - ?", price).
			Where("id = ?", userID).
			Where("coins >= ?", price).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientCoins
		}

		text = hint.Text
		return insertCoinTxn(ctx, tx, userID, -price, fmt.Sprintf("hint:%s:%s", challengeName, tier))
	})
	if err != nil {
		return "", err
	}

	return text, nil
}
