package datastore

import (
	"errors"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Expected business outcomes. Callers distinguish them with errors.Is; anything
// else coming out of this package is a storage failure.
var (
	ErrAlreadyRegistered = errors.New("user already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrChallengeExists   = errors.New("challenge name or secret already in use")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrAlreadyRedeemed   = errors.New("flag already redeemed")
	ErrHintExists        = errors.New("hint already exists for this tier")
	ErrHintNotFound      = errors.New("hint not found")
	ErrInsufficientCoins = errors.New("insufficient coins")
)

// IsUniqueViolation reports whether err is a uniqueness-constraint failure.
// Postgres surfaces a typed pgdriver error; the sqlite shim used in tests only
// gives us the message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.IntegrityViolation()
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
