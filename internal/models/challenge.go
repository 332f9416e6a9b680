package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Challenge struct {
	bun.BaseModel `bun:"table:challenge"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Name          string     `bun:"name,notnull,unique" json:"name"`
	Secret        string     `bun:"secret,notnull,unique" json:"-"`
	Points        int        `bun:"points,notnull" json:"points"`
	EventID       *int64     `bun:"event_id" json:"event_id"`
	CreatorID     string     `bun:"creator_id,notnull" json:"creator_id"`
	Expiration    *time.Time `bun:"expiration" json:"expiration"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Active reports whether the challenge can still be redeemed.
// A nil expiration means the challenge never expires.
func (challenge *Challenge) Active(now time.Time) bool {
	return challenge.Expiration == nil || challenge.Expiration.After(now)
}

// ChallengeInfo is the public listing row: no secret, event resolved to its name.
type ChallengeInfo struct {
	Name       string     `bun:"name" json:"name"`
	Points     int        `bun:"points" json:"points"`
	EventName  *string    `bun:"event_name" json:"event_name"`
	Expiration *time.Time `bun:"expiration" json:"expiration"`
}
