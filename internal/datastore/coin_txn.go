package datastore

import (
	"context"
	"time"

	"fireuai/internal/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func CreateTableCoinTxn(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.CoinTxn)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.CoinTxn)(nil)).Index("index_coin_txn_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// insertCoinTxn runs inside the credit/debit transactions, so it takes the
// transaction handle rather than the root DB.
func insertCoinTxn(ctx context.Context, tx bun.IDB, userID string, amount int, action string) error {
	txn := &models.CoinTxn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Action:    action,
		CreatedAt: time.Now(),
	}

	_, err := tx.NewInsert().Model(txn).Exec(ctx)
	return err
}

func GetCoinTxnsByUser(ctx context.Context, db *bun.DB, userID string, limit int) ([]*models.CoinTxn, error) {
	var txns []*models.CoinTxn
	err := db.NewSelect().Model(&txns).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return txns, nil
}
