package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is keyed by the chat platform identity string, not a surrogate id.
type User struct {
	bun.BaseModel `bun:"table:user"`
	ID            string    `bun:"id,pk" json:"id"`
	Nickname      string    `bun:"nickname,notnull" json:"nickname"`
	Role          Role      `bun:"role,notnull,default:'member'" json:"role"`
	Points        int       `bun:"points,notnull,default:0" json:"points"`
	Coins         int       `bun:"coins,notnull,default:0" json:"coins"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin
}
