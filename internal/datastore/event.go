package datastore

import (
	"context"

	"fireuai/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableEvent(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Event)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// EnsureEvent returns the id of the event with this name, creating it if
// absent. Concurrent calls race on the unique name constraint, never on a
// check-then-insert: the insert is a no-op for the loser and both sides read
// back the surviving row.
func EnsureEvent(ctx context.Context, db *bun.DB, name string) (int64, error) {
	event := &models.Event{Name: name}
	_, err := db.NewInsert().Model(event).On("CONFLICT (name) DO NOTHING").Exec(ctx)
	if err != nil && !IsUniqueViolation(err) {
		return 0, err
	}

	existing, err := FindEventByName(ctx, db, name)
	if err != nil {
		return 0, err
	}

	return existing.ID, nil
}

func FindEventByName(ctx context.Context, db *bun.DB, name string) (*models.Event, error) {
	var event models.Event
	err := db.NewSelect().Model(&event).Where("name = ?", name).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
