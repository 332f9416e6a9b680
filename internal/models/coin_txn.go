package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CoinTxn is the audit trail of coin movements. Positive amounts are credits
// from redemptions, negative amounts are hint purchases. The balance on the
// user row stays authoritative; this table only explains it.
type CoinTxn struct {
	bun.BaseModel `bun:"table:coin_txn"`
	ID            string    `bun:"id,pk" json:"id"`
	UserID        string    `bun:"user_id,notnull" json:"user_id"`
	Amount        int       `bun:"amount,notnull" json:"amount"`
	Action        string    `bun:"action,notnull" json:"action"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
