package handler

import (
	"net/http"

	"fireuai/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🚩")
	})

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated requests.

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard", l.GetRanking)
		routesAPIv1.GET("/leaderboard/weekly", l.GetWeeklyRanking)
		routesAPIv1.GET("/leaderboard/event/:event", l.GetEventRanking)

		ch := groupChallenge{cfg.Container}
		routesAPIv1.GET("/challenges", ch.GetChallenges)
		routesAPIv1.GET("/challenge/:name/solves", ch.GetSolves)
		routesAPIv1.GET("/challenge/:name/firstblood", ch.GetFirstBlood)
		routesAPIv1.GET("/challenge/:name/hints", ch.GetHintAvailability)

		u := groupUser{cfg.Container}
		routesAPIv1.GET("/user/me", u.Me)
		routesAPIv1.GET("/user/coins/history", u.CoinHistory)
		routesAPIv1.GET("/challenges/remaining", ch.GetRemaining)
		routesAPIv1.POST("/flag", ch.Redeem)
		routesAPIv1.POST("/challenge/:name/hint/:tier", ch.PurchaseHint)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			routesAPIv1Admin.Use(AdminOnly(cfg.Container))
			routesAPIv1Admin.POST("/challenge", ch.Create)
			routesAPIv1Admin.POST("/challenge/:name/hint", ch.CreateHint)
			routesAPIv1Admin.POST("/promote/:nickname", u.Promote)
		}
	}

	return r, nil
}
