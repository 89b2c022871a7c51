package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zmanna/rapid-math/internal/app"
	"github.com/zmanna/rapid-math/internal/game"
)

// RoundStore is a Redis-aware implementation of app.RoundRepository.
// Notes:
//   - Rounds themselves stay in a local map: the subscriber broadcast needs
//     the live in-process object.
//   - Redis marks round liveness with a TTL key, so operators can see active
//     players across the fleet (and it could be extended to share snapshots
//     via pub/sub).
type RoundStore struct {
	client *redis.Client
	rules  game.Rules
	ttl    time.Duration

	mu     sync.RWMutex
	rounds map[string]*app.Round
}

func NewRoundStore(client *redis.Client, rules game.Rules, ttl time.Duration) *RoundStore {
	return &RoundStore{
		client: client,
		rules:  rules,
		ttl:    ttl,
		rounds: make(map[string]*app.Round),
	}
}

func (s *RoundStore) GetOrCreate(playerID string) *app.Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round, ok := s.rounds[playerID]; ok {
		return round
	}
	round := app.NewRound(playerID, s.rules)
	s.rounds[playerID] = round
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(playerID), "1", s.ttl).Err()
	return round
}

func (s *RoundStore) Get(playerID string) (*app.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[playerID]
	return round, ok
}

func (s *RoundStore) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[playerID]; !ok {
		return
	}
	delete(s.rounds, playerID)
	_ = s.client.Del(context.Background(), s.key(playerID)).Err()
}

func (s *RoundStore) key(playerID string) string {
	return "round:session:" + playerID
}
