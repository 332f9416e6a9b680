package handler

import (
	"time"

	"fireuai/internal/models"
	"fireuai/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupChallenge struct {
	container *do.Injector
}

type createChallengePayload struct {
	Name       string     `json:"name"`
	Secret     string     `json:"secret"`
	Points     int        `json:"points"`
	Event      string     `json:"event"`
	Expiration *time.Time `json:"expiration"`
}

type createHintPayload struct {
	Tier models.HintTier `json:"tier"`
	Text string          `json:"text"`
}

type redeemPayload struct {
	Secret string `json:"secret"`
}

func (gr *groupChallenge) GetChallenges(c echo.Context) error {
	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenges, err := serviceChallenge.ActiveChallenges(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, challenges, nil)
}

func (gr *groupChallenge) GetRemaining(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenges, err := serviceChallenge.RemainingChallenges(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, challenges, nil)
}

func (gr *groupChallenge) GetSolves(c echo.Context) error {
	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	count, err := serviceChallenge.SolveCount(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"solves": count}, nil)
}

func (gr *groupChallenge) GetFirstBlood(c echo.Context) error {
	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	nickname, err := serviceChallenge.FirstBlood(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"nickname": nickname}, nil)
}

func (gr *groupChallenge) GetHintAvailability(c echo.Context) error {
	serviceHint, err := do.Invoke[*services.ServiceHint](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	availability, err := serviceHint.Availability(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, availability, nil)
}

func (gr *groupChallenge) Redeem(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload redeemPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenge, err := serviceChallenge.Redeem(ctx, user.ID, payload.Secret)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"challenge": challenge.Name,
		"points":    challenge.Points,
	}, nil)
}

func (gr *groupChallenge) PurchaseHint(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceHint, err := do.Invoke[*services.ServiceHint](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	text, err := serviceHint.Purchase(ctx, user.ID, c.Param("name"), models.HintTier(c.Param("tier")))
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"hint": text}, nil)
}

func (gr *groupChallenge) Create(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload createChallengePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if payload.Name == "" || payload.Secret == "" || payload.Points <= 0 {
		return httpx.RestAbort(c, nil, errorx.Wrap(echo.ErrBadRequest, errorx.Validation))
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenge, err := serviceChallenge.Create(ctx, payload.Name, payload.Secret, payload.Points, payload.Event, user.ID, payload.Expiration)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, challenge, nil)
}

func (gr *groupChallenge) CreateHint(c echo.Context) error {
	ctx := c.Request().Context()

	var payload createHintPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if payload.Tier != models.HintBasic && payload.Tier != models.HintPlus {
		return httpx.RestAbort(c, nil, errorx.Wrap(echo.ErrBadRequest, errorx.Validation))
	}

	serviceHint, err := do.Invoke[*services.ServiceHint](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceHint.CreateHint(ctx, c.Param("name"), payload.Tier, payload.Text); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "created", nil)
}
