package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"fireuai/internal/interfaces"
	"fireuai/internal/pkg/caching"
	"fireuai/internal/pkg/limiter"
	"fireuai/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
	tele "gopkg.in/telebot.v3"
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
		Name: "bot",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "start the bot long poller",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired(
				"BOT_TOKEN",
				"DB_DSN",
			)
			if err != nil {
				return err
			}

			container := NewContainer(vs)

			pref := tele.Settings{
				Token:  vs["BOT_TOKEN"],
				Poller: &tele.LongPoller{Timeout: 10 * time.Second},
			}

			b, err := tele.NewBot(pref)
			if err != nil {
				return err
			}

			h := &botHandlers{container}

			b.Handle("/start", h.commandStart)
			b.Handle("/register", h.commandRegister)
			b.Handle("/flag", h.commandFlag)
			b.Handle("/points", h.commandPoints)
			b.Handle("/coins", h.commandCoins)
			b.Handle("/ranking", h.commandRanking)
			b.Handle("/rankingevent", h.commandRankingEvent)
			b.Handle("/rankingweekly", h.commandRankingWeekly)
			b.Handle("/challenges", h.commandChallenges)
			b.Handle("/remaining", h.commandRemaining)
			b.Handle("/hint", h.commandHint)
			b.Handle("/hints", h.commandHints)
			b.Handle("/solves", h.commandSolves)
			b.Handle("/firstblood", h.commandFirstBlood)

			// admin commands
			b.Handle("/makeflag", h.commandMakeFlag)
			b.Handle("/makehint", h.commandMakeHint)
			b.Handle("/promote", h.commandPromote)

			log.Println("bot started")
			b.Start()
			return nil
		},
	}
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(os.Getenv("DB_DSN")),
			pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
		))

		return bun.NewDB(sqldb, pgdialect.New()), nil
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv("REDIS_CACHE"),
		})
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		return db.InitRedis(&db.RedisConfig{
			URL: os.Getenv("REDIS_LIMITER"),
		})
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*services.Bot, error) {
		return services.NewBot(vs["BOT_TOKEN"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceConfig, error) {
		return services.NewServiceConfig(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceUser, error) {
		return services.NewServiceUser(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceChallenge, error) {
		return services.NewServiceChallenge(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceHint, error) {
		return services.NewServiceHint(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceLeaderboard, error) {
		return services.NewServiceLeaderboard(injector)
	})

	return injector
}
