package datastore

import (
	"context"
	"errors"
	"testing"
	"time"

	"fireuai/internal/models"
)

func TestCreateChallengeDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")

	dupSecret := &models.Challenge{
		Name:      "Other",
		Secret:    "flag{abc}",
		Points:    50,
		CreatorID: "creator",
		CreatedAt: time.Now(),
	}
	err := CreateChallenge(ctx, db, dupSecret)
	if !errors.Is(err, ErrChallengeExists) {
		t.Fatalf("expected ErrChallengeExists for duplicate secret, got %v", err)
	}

	dupName := &models.Challenge{
		Name:      "Warmup",
		Secret:    "flag{xyz}",
		Points:    50,
		CreatorID: "creator",
		CreatedAt: time.Now(),
	}
	err = CreateChallenge(ctx, db, dupName)
	if !errors.Is(err, ErrChallengeExists) {
		t.Fatalf("expected ErrChallengeExists for duplicate name, got %v", err)
	}

	count, err := db.NewSelect().Model((*models.Challenge)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count challenges: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 challenge row, got %d", count)
	}
}

func TestFindChallengeByName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")

	challenge, err := FindChallengeByName(ctx, db, "Warmup")
	if err != nil {
		t.Fatalf("find challenge: %v", err)
	}
	if challenge.Points != 100 {
		t.Fatalf("expected 100 points, got %d", challenge.Points)
	}

	_, err = FindChallengeByName(ctx, db, "Missing")
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestActiveChallenges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	forever := mustCreateChallenge(t, db, "forever", "flag{1}", 50, "week1")
	_ = forever

	upcoming := &models.Challenge{
		Name:       "upcoming",
		Secret:     "flag{2}",
		Points:     10,
		CreatorID:  "creator",
		Expiration: &future,
		CreatedAt:  now,
	}
	if err := CreateChallenge(ctx, db, upcoming); err != nil {
		t.Fatalf("create upcoming: %v", err)
	}

	expired := &models.Challenge{
		Name:       "expired",
		Secret:     "flag{3}",
		Points:     30,
		CreatorID:  "creator",
		Expiration: &past,
		CreatedAt:  now,
	}
	if err := CreateChallenge(ctx, db, expired); err != nil {
		t.Fatalf("create expired: %v", err)
	}

	rows, err := ActiveChallenges(ctx, db, now)
	if err != nil {
		t.Fatalf("active challenges: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 active challenges, got %d", len(rows))
	}

	// points ascending: upcoming (10) before forever (50)
	if rows[0].Name != "upcoming" || rows[1].Name != "forever" {
		t.Fatalf("unexpected order: %s, %s", rows[0].Name, rows[1].Name)
	}
	if rows[1].EventName == nil || *rows[1].EventName != "week1" {
		t.Fatalf("expected event name week1 on forever, got %v", rows[1].EventName)
	}
	if rows[0].EventName != nil {
		t.Fatalf("expected no event on upcoming, got %v", *rows[0].EventName)
	}
}

func TestRemainingChallenges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now()

	mustRegister(t, db, "42", "alice")
	mustCreateChallenge(t, db, "one", "flag{one}", 10, "")
	mustCreateChallenge(t, db, "two", "flag{two}", 20, "")

	mustRedeem(t, db, "42", "flag{one}")

	rows, err := RemainingChallenges(ctx, db, "42", now)
	if err != nil {
		t.Fatalf("remaining challenges: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 remaining challenge, got %d", len(rows))
	}
	if rows[0].Name != "two" {
		t.Fatalf("expected remaining challenge 'two', got %s", rows[0].Name)
	}

	// another user still sees everything
	rows, err = RemainingChallenges(ctx, db, "other", now)
	if err != nil {
		t.Fatalf("remaining for other: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 remaining for untouched user, got %d", len(rows))
	}
}
