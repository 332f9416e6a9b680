package datastore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fireuai/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB opens a private in-memory database with the full schema. A single
// pooled connection keeps the in-memory database alive and serializes
// statements the way a real engine serializes conflicting transactions.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	if err := CreateTables(context.Background(), db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	return db
}

func mustRegister(t *testing.T, db *bun.DB, userID, nickname string) {
	t.Helper()
	if err := RegisterUser(context.Background(), db, userID, nickname); err != nil {
		t.Fatalf("register %s: %v", userID, err)
	}
}

func mustCreateChallenge(t *testing.T, db *bun.DB, name, secret string, points int, eventName string) *models.Challenge {
	t.Helper()
	ctx := context.Background()

	challenge := &models.Challenge{
		Name:      name,
		Secret:    secret,
		Points:    points,
		CreatorID: "creator",
		CreatedAt: time.Now(),
	}
	if eventName != "" {
		eventID, err := EnsureEvent(ctx, db, eventName)
		if err != nil {
			t.Fatalf("ensure event %s: %v", eventName, err)
		}
		challenge.EventID = &eventID
	}

	if err := CreateChallenge(ctx, db, challenge); err != nil {
		t.Fatalf("create challenge %s: %v", name, err)
	}
	return challenge
}

func mustRedeem(t *testing.T, db *bun.DB, userID, secret string) *models.Challenge {
	t.Helper()
	challenge, err := RedeemFlag(context.Background(), db, userID, secret)
	if err != nil {
		t.Fatalf("redeem %s by %s: %v", secret, userID, err)
	}
	return challenge
}

func userBalances(t *testing.T, db *bun.DB, userID string) (int, int) {
	t.Helper()
	user, err := FindUserByID(context.Background(), db, userID)
	if err != nil {
		t.Fatalf("find user %s: %v", userID, err)
	}
	return user.Points, user.Coins
}
