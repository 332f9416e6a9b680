package datastore

import (
	"context"
	"errors"
	"testing"

	"fireuai/internal/models"
)

func TestCreateHint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")

	availability, err := HintAvailability(ctx, db, "Warmup")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if availability.Basic || availability.Plus {
		t.Fatalf("expected no hints yet, got %+v", availability)
	}

	if err := CreateHint(ctx, db, "Warmup", models.HintBasic, "Try XOR"); err != nil {
		t.Fatalf("create basic hint: %v", err)
	}

	err = CreateHint(ctx, db, "Warmup", models.HintBasic, "another")
	if !errors.Is(err, ErrHintExists) {
		t.Fatalf("expected ErrHintExists for duplicate tier, got %v", err)
	}

	if err := CreateHint(ctx, db, "Warmup", models.HintPlus, "The key is 0x42"); err != nil {
		t.Fatalf("create plus hint: %v", err)
	}

	availability, err = HintAvailability(ctx, db, "Warmup")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !availability.Basic || !availability.Plus {
		t.Fatalf("expected both tiers available, got %+v", availability)
	}

	err = CreateHint(ctx, db, "Missing", models.HintBasic, "text")
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestPurchaseHint(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustRegister(t, db, "42", "alice")
	mustCreateChallenge(t, db, "funded", "flag{funded}", 1000, "")
	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")
	if err := CreateHint(ctx, db, "Warmup", models.HintBasic, "Try XOR"); err != nil {
		t.Fatalf("create hint: %v", err)
	}

	// redeeming the 1000-point challenge funds the purchase
	mustRedeem(t, db, "42", "flag{funded}")

	text, err := PurchaseHint(ctx, db, "42", "Warmup", models.HintBasic, 1000)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if text != "Try XOR" {
		t.Fatalf("expected hint text, got %q", text)
	}

	points, coins := userBalances(t, db, "42")
	if points != 1000 {
		t.Fatalf("purchase must not touch points, got %d", points)
	}
	if coins != 0 {
		t.Fatalf("expected 0 coins after purchase, got %d", coins)
	}

	_, err = PurchaseHint(ctx, db, "42", "Warmup", models.HintBasic, 1000)
	if !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins on empty balance, got %v", err)
	}
}

func TestPurchaseHintInsufficientCoins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustRegister(t, db, "42", "alice")
	mustCreateChallenge(t, db, "funded", "flag{funded}", 500, "")
	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")
	if err := CreateHint(ctx, db, "Warmup", models.HintBasic, "Try XOR"); err != nil {
		t.Fatalf("create hint: %v", err)
	}
	mustRedeem(t, db, "42", "flag{funded}")

	_, err := PurchaseHint(ctx, db, "42", "Warmup", models.HintBasic, 1000)
	if !errors.Is(err, ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}

	_, coins := userBalances(t, db, "42")
	if coins != 500 {
		t.Fatalf("failed purchase must not touch coins, got %d", coins)
	}
}

func TestPurchaseHintMissingTier(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustRegister(t, db, "42", "alice")
	mustCreateChallenge(t, db, "funded", "flag{funded}", 5000, "")
	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")
	if err := CreateHint(ctx, db, "Warmup", models.HintBasic, "Try XOR"); err != nil {
		t.Fatalf("create hint: %v", err)
	}
	mustRedeem(t, db, "42", "flag{funded}")

	_, err := PurchaseHint(ctx, db, "42", "Warmup", models.HintPlus, 2500)
	if !errors.Is(err, ErrHintNotFound) {
		t.Fatalf("expected ErrHintNotFound for missing tier, got %v", err)
	}

	_, coins := userBalances(t, db, "42")
	if coins != 5000 {
		t.Fatalf("failed purchase must not touch coins, got %d", coins)
	}

	_, err = PurchaseHint(ctx, db, "ghost", "Warmup", models.HintBasic, 1000)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCoinTxnLog(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustRegister(t, db, "42", "alice")
	mustCreateChallenge(t, db, "funded", "flag{funded}", 2000, "")
	mustCreateChallenge(t, db, "Warmup", "flag{abc}", 100, "")
	if err := CreateHint(ctx, db, "Warmup", models.HintBasic, "Try XOR"); err != nil {
		t.Fatalf("create hint: %v", err)
	}

	mustRedeem(t, db, "42", "flag{funded}")
	if _, err := PurchaseHint(ctx, db, "42", "Warmup", models.HintBasic, 1000); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	txns, err := GetCoinTxnsByUser(ctx, db, "42", 10)
	if err != nil {
		t.Fatalf("coin txns: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 coin transactions, got %d", len(txns))
	}

	var credit, debit *models.CoinTxn
	for _, txn := range txns {
		if txn.Amount > 0 {
			credit = txn
		} else {
			debit = txn
		}
	}
	if credit == nil || credit.Amount != 2000 || credit.Action != "redeem:funded" {
		t.Fatalf("unexpected credit txn: %+v", credit)
	}
	if debit == nil || debit.Amount != -1000 || debit.Action != "hint:Warmup:basic" {
		t.Fatalf("unexpected debit txn: %+v", debit)
	}
}
