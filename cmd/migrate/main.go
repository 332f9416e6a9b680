package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"

	"fireuai/internal/datastore"
	"fireuai/internal/models"
	"fireuai/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			if err := datastore.CreateTables(ctx, db); err != nil {
				return err
			}

			log.Println("tables created")
			return nil
		},
	}
}

// commandConfigMigration seeds the runtime-tunable defaults. Existing rows
// are left untouched.
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate-config",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			defaults := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: services.SERVER_MODE_PRODUCTION},
				{Key: services.CONFIG_RANKING_LIMIT, Value: strconv.Itoa(services.RANKING_DEFAULT_LIMIT)},
				{Key: services.CONFIG_WEEKLY_EVENT_NAME, Value: services.WEEKLY_EVENT_DEFAULT_NAME},
				{Key: services.CONFIG_REDEEM_RATE_LIMIT, Value: strconv.Itoa(services.REDEEM_RATE_LIMIT_PER_MIN)},
				{Key: services.CONFIG_ANNOUNCE_CHAT_ID, Value: "0"},
				{Key: "CRONJOB_TIME_RANKING", Value: "@every 5m"},
				{Key: "CRONJOB_TIME_EXPIRY", Value: "@hourly"},
			}

			for _, config := range defaults {
				if err := datastore.InsertConfig(ctx, db, config); err != nil {
					return err
				}
			}

			log.Println("config defaults seeded")
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}
