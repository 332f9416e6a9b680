package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fireuai/internal/models"
	"fireuai/internal/services"

	"github.com/samber/do"
	tele "gopkg.in/telebot.v3"
)

// replyLimit is the transport message cap; longer replies get cut.
const replyLimit = 2000

const textStart = `🚩 Welcome to the FireUAI challenge ledger!

/register <nickname> to join, /challenges to see what is open,
/flag <secret> to submit. Earn points and coins, spend coins on /hint.`

type botHandlers struct {
	container *do.Injector
}

func clampReply(text string) string {
	if len(text) > replyLimit {
		return text[:replyLimit]
	}
	return text
}

func senderID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

func (h *botHandlers) requireRegistered(c tele.Context) (string, bool) {
	userID := senderID(c)

	serviceUser, err := do.Invoke[*services.ServiceUser](h.container)
	if err != nil {
		_ = c.Send(fmt.Sprintf("error %s", err.Error()))
		return "", false
	}

	registered, err := serviceUser.IsRegistered(context.Background(), userID)
	if err != nil {
		_ = c.Send(fmt.Sprintf("error %s", err.Error()))
		return "", false
	}
	if !registered {
		_ = c.Send("You are not registered yet. Use /register <nickname> first.")
		return "", false
	}

	return userID, true
}

func (h *botHandlers) requireAdmin(c tele.Context) (string, bool) {
	userID, ok := h.requireRegistered(c)
	if !ok {
		return "", false
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](h.container)
	if err != nil {
		_ = c.Send(fmt.Sprintf("error %s", err.Error()))
		return "", false
	}

	admin, err := serviceUser.IsAdmin(context.Background(), userID)
	if err != nil {
		_ = c.Send(fmt.Sprintf("error %s", err.Error()))
		return "", false
	}
	if !admin {
		_ = c.Send("This command is for admins only.")
		return "", false
	}

	return userID, true
}

func (h *botHandlers) commandStart(c tele.Context) error {
	return c.Send(textStart)
}

func (h *botHandlers) commandRegister(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /register <nickname>")
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	if err := serviceUser.Register(context.Background(), senderID(c), args[0]); err != nil {
		return c.Send("Registration failed. You may already be registered, or the nickname is taken.")
	}

	return c.Send(fmt.Sprintf("Welcome, %s! Use /challenges to get started.", args[0]))
}

func (h *botHandlers) commandFlag(c tele.Context) error {
	userID, ok := h.requireRegistered(c)
	if !ok {
		return nil
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /flag <secret>")
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	challenge, err := serviceChallenge.Redeem(context.Background(), userID, args[0])
	if err != nil {
		return c.Send("Nope. Wrong flag, already redeemed, or you are going too fast.")
	}

	return c.Send(fmt.Sprintf("✅ Correct! %s is solved, +%d points and +%d coins.", challenge.Name, challenge.Points, challenge.Points))
}

func (h *botHandlers) commandPoints(c tele.Context) error {
	userID, ok := h.requireRegistered(c)
	if !ok {
		return nil
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	points, err := serviceUser.GetPoints(context.Background(), userID)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	return c.Send(fmt.Sprintf("You have %d points.", points))
}

func (h *botHandlers) commandCoins(c tele.Context) error {
	userID, ok := h.requireRegistered(c)
	if !ok {
		return nil
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	coins, err := serviceUser.GetCoins(context.Background(), userID)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	return c.Send(fmt.Sprintf("You have %d coins.", coins))
}

func (h *botHandlers) commandRanking(c tele.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	rows, err := serviceLeaderboard.GetRanking(context.Background())
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}
	if len(rows) == 0 {
		return c.Send("No scores yet.")
	}

	var sb strings.Builder
	sb.WriteString("🏆 Ranking\n")
	for i, row := range rows {
		fmt.Fprintf(&sb, "%d. %s — %d\n", i+1, row.Nickname, row.Points)
	}

	return c.Send(clampReply(sb.String()))
}

func (h *botHandlers) commandRankingEvent(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /rankingevent <event>")
	}

	return h.sendEventRanking(c, args[0])
}

func (h *botHandlers) commandRankingWeekly(c tele.Context) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	rows, err := serviceLeaderboard.GetWeeklyRanking(context.Background())
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	return c.Send(clampReply(formatEventRanking("this week", rows)))
}

func (h *botHandlers) sendEventRanking(c tele.Context, eventName string) error {
	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	rows, err := serviceLeaderboard.GetEventRanking(context.Background(), eventName)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	return c.Send(clampReply(formatEventRanking(eventName, rows)))
}

func formatEventRanking(label string, rows []*models.EventRankingRow) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No scores for %s yet.", label)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 Ranking for %s\n", label)
	for i, row := range rows {
		fmt.Fprintf(&sb, "%d. %s — %d\n", i+1, row.Nickname, row.TotalPoints)
	}
	return sb.String()
}

func formatChallenges(rows []*models.ChallengeInfo) string {
	if len(rows) == 0 {
		return "Nothing here."
	}

	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "• %s (%d pts", row.Name, row.Points)
		if row.EventName != nil {
			fmt.Fprintf(&sb, ", %s", *row.EventName)
		}
		if row.Expiration != nil {
			fmt.Fprintf(&sb, ", expires %s", row.Expiration.Format("2006-01-02 15:04"))
		}
		sb.WriteString(")\n")
	}
	return sb.String()
}

func (h *botHandlers) commandChallenges(c tele.Context) error {
	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	rows, err := serviceChallenge.ActiveChallenges(context.Background())
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	return c.Send(clampReply(formatChallenges(rows)))
}

func (h *botHandlers) commandRemaining(c tele.Context) error {
	userID, ok := h.requireRegistered(c)
	if !ok {
		return nil
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	rows, err := serviceChallenge.RemainingChallenges(context.Background(), userID)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}
	if len(rows) == 0 {
		return c.Send("🎉 You solved everything that is still open.")
	}

	return c.Send(clampReply(formatChallenges(rows)))
}

func (h *botHandlers) commandHint(c tele.Context) error {
	userID, ok := h.requireRegistered(c)
	if !ok {
		return nil
	}

	args := c.Args()
	if len(args) != 2 {
		return c.Send(fmt.Sprintf("Usage: /hint <challenge> <basic|plus>. Prices: basic %d, plus %d coins.", services.HINT_PRICE_BASIC, services.HINT_PRICE_PLUS))
	}

	tier := models.HintTier(args[1])
	if tier != models.HintBasic && tier != models.HintPlus {
		return c.Send("Tier must be basic or plus.")
	}

	serviceHint, err := do.Invoke[*services.ServiceHint](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	text, err := serviceHint.Purchase(context.Background(), userID, args[0], tier)
	if err != nil {
		return c.Send("Purchase failed. Check the challenge name, the tier, and your coin balance.")
	}

	return c.Send(clampReply(fmt.Sprintf("💡 %s", text)))
}

func (h *botHandlers) commandHints(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /hints <challenge>")
	}

	serviceHint, err := do.Invoke[*services.ServiceHint](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	availability, err := serviceHint.Availability(context.Background(), args[0])
	if err != nil {
		return c.Send("Unknown challenge.")
	}

	var tiers []string
	if availability.Basic {
		tiers = append(tiers, fmt.Sprintf("basic (%d coins)", services.HINT_PRICE_BASIC))
	}
	if availability.Plus {
		tiers = append(tiers, fmt.Sprintf("plus (%d coins)", services.HINT_PRICE_PLUS))
	}
	if len(tiers) == 0 {
		return c.Send("No hints for this challenge.")
	}

	return c.Send(fmt.Sprintf("Available hints: %s", strings.Join(tiers, ", ")))
}

func (h *botHandlers) commandSolves(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /solves <challenge>")
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	count, err := serviceChallenge.SolveCount(context.Background(), args[0])
	if err != nil {
		return c.Send("Unknown challenge.")
	}

	return c.Send(fmt.Sprintf("%s has %d solves.", args[0], count))
}

func (h *botHandlers) commandFirstBlood(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /firstblood <challenge>")
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	nickname, err := serviceChallenge.FirstBlood(context.Background(), args[0])
	if err != nil {
		return c.Send("Unknown challenge.")
	}
	if nickname == "" {
		return c.Send("Nobody solved it yet. Be the first!")
	}

	return c.Send(fmt.Sprintf("🩸 First blood on %s: %s", args[0], nickname))
}

func (h *botHandlers) commandMakeFlag(c tele.Context) error {
	userID, ok := h.requireAdmin(c)
	if !ok {
		return nil
	}

	args := c.Args()
	if len(args) < 3 || len(args) > 5 {
		return c.Send("Usage: /makeflag <name> <secret> <points> [event] [expiration RFC3339]")
	}

	points, err := strconv.Atoi(args[2])
	if err != nil || points <= 0 {
		return c.Send("Points must be a positive number.")
	}

	eventName := ""
	if len(args) >= 4 {
		eventName = args[3]
	}

	var expiration *time.Time
	if len(args) == 5 {
		t, err := time.Parse(time.RFC3339, args[4])
		if err != nil {
			return c.Send("Expiration must be RFC3339, e.g. 2026-01-02T15:04:05Z")
		}
		expiration = &t
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	challenge, err := serviceChallenge.Create(context.Background(), args[0], args[1], points, eventName, userID, expiration)
	if err != nil {
		return c.Send("Creation failed. Name and secret must both be unused.")
	}

	return c.Send(fmt.Sprintf("Challenge %s created (%d points).", challenge.Name, challenge.Points))
}

func (h *botHandlers) commandMakeHint(c tele.Context) error {
	if _, ok := h.requireAdmin(c); !ok {
		return nil
	}

	args := c.Args()
	if len(args) < 3 {
		return c.Send("Usage: /makehint <challenge> <basic|plus> <text...>")
	}

	tier := models.HintTier(args[1])
	if tier != models.HintBasic && tier != models.HintPlus {
		return c.Send("Tier must be basic or plus.")
	}

	serviceHint, err := do.Invoke[*services.ServiceHint](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	text := strings.Join(args[2:], " ")
	if err := serviceHint.CreateHint(context.Background(), args[0], tier, text); err != nil {
		return c.Send("Creation failed. Check the challenge name; a tier can only be set once.")
	}

	return c.Send(fmt.Sprintf("Hint (%s) added to %s.", tier, args[0]))
}

func (h *botHandlers) commandPromote(c tele.Context) error {
	if _, ok := h.requireAdmin(c); !ok {
		return nil
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /promote <nickname>")
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](h.container)
	if err != nil {
		return c.Send(fmt.Sprintf("error %s", err.Error()))
	}

	if err := serviceUser.Promote(context.Background(), args[0]); err != nil {
		return c.Send("No such player.")
	}

	return c.Send(fmt.Sprintf("%s is now an admin.", args[0]))
}
