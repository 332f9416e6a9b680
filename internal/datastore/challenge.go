package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fireuai/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableChallenge(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Challenge)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Challenge)(nil)).Index("index_challenge_event_id").IfNotExists().Column("event_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// CreateChallenge inserts the challenge row. A name or secret collision comes
// back as ErrChallengeExists so the caller can tell "already there" from a
// real failure. Challenges are immutable once inserted.
func CreateChallenge(ctx context.Context, db *bun.DB, challenge *models.Challenge) error {
	_, err := db.NewInsert().Model(challenge).Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrChallengeExists
		}
		return err
	}

	return nil
}

func FindChallengeByName(ctx context.Context, db *bun.DB, name string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := db.NewSelect().Model(&challenge).Where("name = ?", name).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// ActiveChallenges lists redeemable challenges, cheapest first. NULL
// expiration means never-expiring; challenges without an event still show up.
func ActiveChallenges(ctx context.Context, db *bun.DB, now time.Time) ([]*models.ChallengeInfo, error) {
	var rows []*models.ChallengeInfo
	err := db.NewSelect().
		ColumnExpr("c.name, c.points, e.name AS event_name, c.expiration").
		TableExpr("challenge AS c").
		Join("LEFT JOIN event AS e ON e.id = c.event_id").
		Where("(c.expiration IS NULL OR c.expiration > ?)", now).
		OrderExpr("c.points ASC, c.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// ChallengesExpiringBetween lists challenges whose deadline falls inside the
// window, soonest first. Never-expiring challenges are not in it.
func ChallengesExpiringBetween(ctx context.Context, db *bun.DB, from time.Time, until time.Time) ([]*models.Challenge, error) {
	var challenges []*models.Challenge
	err := db.NewSelect().Model(&challenges).
		Where("expiration IS NOT NULL").
		Where("expiration > ?", from).
		Where("expiration <= ?", until).
		Order("expiration ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return challenges, nil
}

// RemainingChallenges is ActiveChallenges minus what the user already solved.
func RemainingChallenges(ctx context.Context, db *bun.DB, userID string, now time.Time) ([]*models.ChallengeInfo, error) {
	var rows []*models.ChallengeInfo
	err := db.NewSelect().
		ColumnExpr("c.name, c.points, e.name AS event_name, c.expiration").
		TableExpr("challenge AS c").
		Join("LEFT JOIN event AS e ON e.id = c.event_id").
		Where("(c.expiration IS NULL OR c.expiration > ?)", now).
		Where("NOT EXISTS (SELECT 1 FROM reward AS r WHERE r.challenge_id = c.id AND r.user_id = ?)", userID).
		OrderExpr("c.points ASC, c.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
