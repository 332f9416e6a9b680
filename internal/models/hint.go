package models

import (
	"github.com/uptrace/bun"
)

type HintTier string

const (
	HintBasic HintTier = "basic"
	HintPlus  HintTier = "plus"
)

// Hint is purchasable supplementary text, at most one per (challenge, tier).
type Hint struct {
	bun.BaseModel `bun:"table:hint"`
	ID            int64    `bun:"id,pk,autoincrement" json:"id"`
	ChallengeID   int64    `bun:"challenge_id,notnull,unique:hint_challenge_tier" json:"challenge_id"`
	Tier          HintTier `bun:"tier,notnull,unique:hint_challenge_tier" json:"tier"`
	Text          string   `bun:"text,notnull" json:"text"`
}

type HintAvailability struct {
	Basic bool `json:"basic"`
	Plus  bool `json:"plus"`
}
