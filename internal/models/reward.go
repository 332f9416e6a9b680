package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reward records one successful solve. The composite primary key is the
// concurrency guard: two redemptions of the same challenge by the same user
// cannot both insert.
type Reward struct {
	bun.BaseModel `bun:"table:reward"`
	UserID        string    `bun:"user_id,pk" json:"user_id"`
	ChallengeID   int64     `bun:"challenge_id,pk" json:"challenge_id"`
	RedeemedAt    time.Time `bun:"redeemed_at,notnull" json:"redeemed_at"`
}

type FirstSolve struct {
	UserID     string    `bun:"user_id" json:"user_id"`
	RedeemedAt time.Time `bun:"redeemed_at" json:"redeemed_at"`
}
