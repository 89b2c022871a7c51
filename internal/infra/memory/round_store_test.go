package memory

import (
	"testing"

	"github.com/zmanna/rapid-math/internal/game"
)

func TestRoundStoreLifecycle(t *testing.T) {
	store := NewRoundStore(game.DefaultRules())

	round := store.GetOrCreate("p1")
	if round == nil {
		t.Fatalf("expected round")
	}
	if again := store.GetOrCreate("p1"); again != round {
		t.Fatalf("expected the same round on repeat GetOrCreate")
	}
	if _, ok := store.Get("p1"); !ok {
		t.Fatalf("expected round present")
	}

	store.Delete("p1")
	if _, ok := store.Get("p1"); ok {
		t.Fatalf("expected round removed")
	}
}
