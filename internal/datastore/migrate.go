package datastore

import (
	"context"

	"github.com/uptrace/bun"
)

// CreateTables creates the whole ledger schema. Safe to run repeatedly.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, create := range []func(context.Context, *bun.DB) error{
		CreateTableUser,
		CreateTableEvent,
		CreateTableChallenge,
		CreateTableReward,
		CreateTableHint,
		CreateTableCoinTxn,
		CreateTableConfig,
	} {
		if err := create(ctx, db); err != nil {
			return err
		}
	}

	return nil
}
