package models

import (
	"github.com/uptrace/bun"
)

// Config is a runtime-tunable setting (announce chat, ranking limit, redeem
// rate limit). Operators edit rows; the services read them through the cache.
type Config struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk" json:"key"`
	Value         string `bun:"value" json:"value"`
}
