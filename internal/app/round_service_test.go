package app_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/zmanna/rapid-math/internal/app"
	"github.com/zmanna/rapid-math/internal/domain"
	"github.com/zmanna/rapid-math/internal/game"
	"github.com/zmanna/rapid-math/internal/infra/memory"
)

func newTestService() (*app.RoundService, *memory.RoundStore) {
	store := memory.NewRoundStore(game.DefaultRules())
	return app.NewRoundService(store), store
}

func TestOpenCreatesFreshRound(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	snap := service.Open(ctx, "p1")
	if snap.PlayerID != "p1" {
		t.Fatalf("expected playerId p1, got %q", snap.PlayerID)
	}
	if snap.Running || snap.GameOver {
		t.Fatalf("fresh round should be idle: %+v", snap)
	}
	if snap.RemainingSeconds != 30 {
		t.Fatalf("expected 30s budget, got %d", snap.RemainingSeconds)
	}
	if snap.Expression == "" {
		t.Fatalf("expected a problem on open")
	}
}

func TestStartSubmitFlow(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	service.Open(ctx, "p1")
	snap, err := service.Start(ctx, "p1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !snap.Running {
		t.Fatalf("expected running round after start")
	}

	round, ok := store.Get("p1")
	if !ok {
		t.Fatalf("round missing from store")
	}
	snap, err = service.Submit(ctx, "p1", strconv.Itoa(round.Answer()))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if snap.Score != 1 || snap.CorrectCount != 1 {
		t.Fatalf("expected score 1 after a correct simple answer, got %+v", snap)
	}
	if snap.RemainingSeconds != 31 {
		t.Fatalf("expected 1s bonus, got %d remaining", snap.RemainingSeconds)
	}
}

func TestOperationsRequireOpenRound(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, err := service.Start(ctx, "ghost"); err != domain.ErrRoundNotFound {
		t.Fatalf("expected round-not-found, got %v", err)
	}
	if _, err := service.Submit(ctx, "ghost", "1"); err != domain.ErrRoundNotFound {
		t.Fatalf("expected round-not-found, got %v", err)
	}
	if _, _, err := service.Subscribe(ctx, "ghost"); err != domain.ErrRoundNotFound {
		t.Fatalf("expected round-not-found, got %v", err)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	service.Open(ctx, "p1")
	ch, cancel, err := service.Subscribe(ctx, "p1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.Start(ctx, "p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	update := <-ch
	if !update.Running {
		t.Fatalf("expected running snapshot, got %+v", update)
	}

	if _, err := service.Submit(ctx, "p1", "oops"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	update = <-ch
	if update.WrongCount != 1 {
		t.Fatalf("expected wrong count 1, got %+v", update)
	}
}

func TestIdleTicksDoNotBroadcast(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	service.Open(ctx, "p1")
	ch, cancel, err := service.Subscribe(ctx, "p1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := service.Tick(ctx, "p1", time.Second); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	select {
	case snap := <-ch:
		t.Fatalf("idle tick broadcast a snapshot: %+v", snap)
	default:
	}

	if _, err := service.Start(ctx, "p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	<-ch
	if _, err := service.Tick(ctx, "p1", time.Second); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	update := <-ch
	if update.RemainingSeconds != 29 {
		t.Fatalf("expected 29s remaining, got %d", update.RemainingSeconds)
	}
}

func TestExpiryAndReset(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	service.Open(ctx, "p1")
	if _, err := service.Start(ctx, "p1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	snap, err := service.Tick(ctx, "p1", time.Minute)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if !snap.GameOver || snap.Running {
		t.Fatalf("expected game over, got %+v", snap)
	}
	if snap.RemainingSeconds != 0 {
		t.Fatalf("expected exhausted countdown, got %d", snap.RemainingSeconds)
	}

	snap, err = service.Reset(ctx, "p1")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if snap.GameOver || snap.Running || snap.Score != 0 || snap.RemainingSeconds != 30 {
		t.Fatalf("expected fresh round after reset, got %+v", snap)
	}
}

func TestLeaveDropsRound(t *testing.T) {
	ctx := context.Background()
	service, store := newTestService()

	service.Open(ctx, "p1")
	service.Leave(ctx, "p1")
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected round removed after leave")
	}
	if _, err := service.Start(ctx, "p1"); err != domain.ErrRoundNotFound {
		t.Fatalf("expected round-not-found after leave, got %v", err)
	}
}
