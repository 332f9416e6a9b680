package services

import (
	"context"
	"testing"

	"github.com/samber/do"
)

func TestRedeemFlow(t *testing.T) {
	injector, _, _ := newTestContainer(t)
	ctx := context.Background()

	seedUser(t, injector, "42", "alice")
	seedChallenge(t, injector, "Warmup", "flag{abc}", 100, "")

	serviceChallenge, err := do.Invoke[*ServiceChallenge](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	serviceUser, err := do.Invoke[*ServiceUser](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	// prime the balance cache so the redeem has something to invalidate
	points, err := serviceUser.GetPoints(ctx, "42")
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if points != 0 {
		t.Fatalf("expected 0 points before redeem, got %d", points)
	}

	challenge, err := serviceChallenge.Redeem(ctx, "42", "flag{abc}")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if challenge.Name != "Warmup" {
		t.Fatalf("expected Warmup, got %s", challenge.Name)
	}

	points, err = serviceUser.GetPoints(ctx, "42")
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if points != 100 {
		t.Fatalf("expected fresh balance after invalidation, got %d", points)
	}

	coins, err := serviceUser.GetCoins(ctx, "42")
	if err != nil {
		t.Fatalf("get coins: %v", err)
	}
	if coins != 100 {
		t.Fatalf("expected 100 coins, got %d", coins)
	}

	if _, err = serviceChallenge.Redeem(ctx, "42", "flag{abc}"); err == nil {
		t.Fatalf("expected error on duplicate redeem")
	}

	if _, err = serviceChallenge.Redeem(ctx, "42", "flag{unknown}"); err == nil {
		t.Fatalf("expected error on unknown secret")
	}
}

func TestRedeemRateLimited(t *testing.T) {
	injector, _, stub := newTestContainer(t)
	ctx := context.Background()

	seedUser(t, injector, "42", "alice")
	seedChallenge(t, injector, "Warmup", "flag{abc}", 100, "")

	serviceChallenge, err := do.Invoke[*ServiceChallenge](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	stub.denied = true
	if _, err := serviceChallenge.Redeem(ctx, "42", "flag{abc}"); err == nil {
		t.Fatalf("expected rate limit error")
	}

	serviceUser, err := do.Invoke[*ServiceUser](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	points, err := serviceUser.GetPoints(ctx, "42")
	if err != nil {
		t.Fatalf("get points: %v", err)
	}
	if points != 0 {
		t.Fatalf("rate-limited redeem must not credit, got %d points", points)
	}

	// and the flag is still claimable once the limiter lets it through
	stub.denied = false
	if _, err := serviceChallenge.Redeem(ctx, "42", "flag{abc}"); err != nil {
		t.Fatalf("redeem after limit lifted: %v", err)
	}
}

func TestChallengeListings(t *testing.T) {
	injector, _, _ := newTestContainer(t)
	ctx := context.Background()

	seedUser(t, injector, "42", "alice")
	seedChallenge(t, injector, "one", "flag{one}", 10, "week1")
	seedChallenge(t, injector, "two", "flag{two}", 20, "")

	serviceChallenge, err := do.Invoke[*ServiceChallenge](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	active, err := serviceChallenge.ActiveChallenges(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active challenges, got %d", len(active))
	}

	if _, err := serviceChallenge.Redeem(ctx, "42", "flag{one}"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	remaining, err := serviceChallenge.RemainingChallenges(ctx, "42")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "two" {
		t.Fatalf("expected only 'two' remaining, got %+v", remaining)
	}
}

func TestSolveCountAndFirstBlood(t *testing.T) {
	injector, _, _ := newTestContainer(t)
	ctx := context.Background()

	seedUser(t, injector, "1", "alice")
	seedUser(t, injector, "2", "bob")
	seedChallenge(t, injector, "Warmup", "flag{abc}", 100, "")

	serviceChallenge, err := do.Invoke[*ServiceChallenge](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	nickname, err := serviceChallenge.FirstBlood(ctx, "Warmup")
	if err != nil {
		t.Fatalf("first blood: %v", err)
	}
	if nickname != "" {
		t.Fatalf("expected no first blood yet, got %q", nickname)
	}

	if _, err := serviceChallenge.Redeem(ctx, "1", "flag{abc}"); err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if _, err := serviceChallenge.Redeem(ctx, "2", "flag{abc}"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	count, err := serviceChallenge.SolveCount(ctx, "Warmup")
	if err != nil {
		t.Fatalf("solve count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 solves, got %d", count)
	}

	nickname, err = serviceChallenge.FirstBlood(ctx, "Warmup")
	if err != nil {
		t.Fatalf("first blood: %v", err)
	}
	if nickname != "alice" {
		t.Fatalf("expected alice, got %q", nickname)
	}

	if _, err := serviceChallenge.SolveCount(ctx, "Missing"); err == nil {
		t.Fatalf("expected error for unknown challenge")
	}
}
