package services

import (
	"context"
	"testing"

	"github.com/samber/do"
)

func TestRegisterAndPromote(t *testing.T) {
	injector, _, _ := newTestContainer(t)
	ctx := context.Background()

	serviceUser, err := do.Invoke[*ServiceUser](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	if err := serviceUser.Register(ctx, "42", "alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := serviceUser.Register(ctx, "42", "alice2"); err == nil {
		t.Fatalf("expected error on duplicate registration")
	}

	registered, err := serviceUser.IsRegistered(ctx, "42")
	if err != nil {
		t.Fatalf("is registered: %v", err)
	}
	if !registered {
		t.Fatalf("expected user to be registered")
	}

	admin, err := serviceUser.IsAdmin(ctx, "42")
	if err != nil {
		t.Fatalf("is admin: %v", err)
	}
	if admin {
		t.Fatalf("fresh user must not be admin")
	}

	if err := serviceUser.Promote(ctx, "alice"); err != nil {
		t.Fatalf("promote: %v", err)
	}

	admin, err = serviceUser.IsAdmin(ctx, "42")
	if err != nil {
		t.Fatalf("is admin: %v", err)
	}
	if !admin {
		t.Fatalf("expected admin after promotion")
	}

	if err := serviceUser.Promote(ctx, "ghost"); err == nil {
		t.Fatalf("expected error promoting unknown nickname")
	}
}

func TestGetUserUnknown(t *testing.T) {
	injector, _, _ := newTestContainer(t)

	serviceUser, err := do.Invoke[*ServiceUser](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	if _, err := serviceUser.GetUser(context.Background(), "nobody"); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestCoinHistory(t *testing.T) {
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

	if _, err := serviceChallenge.Redeem(ctx, "42", "flag{abc}"); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	txns, err := serviceUser.CoinHistory(ctx, "42", 10)
	if err != nil {
		t.Fatalf("coin history: %v", err)
	}
	if len(txns) != 1 {
		t.Fatalf("expected 1 coin txn, got %d", len(txns))
	}
	if txns[0].Amount != 100 {
		t.Fatalf("expected +100 credit, got %d", txns[0].Amount)
	}
}

func TestGetIntConfigDefault(t *testing.T) {
	injector, db, _ := newTestContainer(t)
	ctx := context.Background()

	serviceConfig, err := do.Invoke[*ServiceConfig](injector)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	value, _ := serviceConfig.GetIntConfig(ctx, CONFIG_RANKING_LIMIT, RANKING_DEFAULT_LIMIT)
	if value != RANKING_DEFAULT_LIMIT {
		t.Fatalf("expected default %d, got %d", RANKING_DEFAULT_LIMIT, value)
	}

	seedConfig(t, db, CONFIG_ANNOUNCE_CHAT_ID, "-100123")
	value, err = serviceConfig.GetIntConfig(ctx, CONFIG_ANNOUNCE_CHAT_ID, 0)
	if err != nil {
		t.Fatalf("get int config: %v", err)
	}
	if value != -100123 {
		t.Fatalf("expected -100123, got %d", value)
	}
}
