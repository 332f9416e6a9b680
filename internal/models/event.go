package models

import (
	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:event"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,notnull,unique" json:"name"`
}
