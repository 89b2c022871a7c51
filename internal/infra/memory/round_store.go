package memory

import (
	"sync"

	"github.com/zmanna/rapid-math/internal/app"
	"github.com/zmanna/rapid-math/internal/game"
)

// RoundStore is an in-memory implementation of app.RoundRepository.
type RoundStore struct {
	rules game.Rules

	mu     sync.RWMutex
	rounds map[string]*app.Round
}

func NewRoundStore(rules game.Rules) *RoundStore {
	return &RoundStore{
		rules:  rules,
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
	delete(s.rounds, playerID)
}
