package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/zmanna/rapid-math/internal/domain"
	"github.com/zmanna/rapid-math/internal/game"
)

// RoundRepository abstracts how player rounds are stored (in-memory, Redis, etc).
type RoundRepository interface {
	GetOrCreate(playerID string) *Round
	Get(playerID string) (*Round, bool)
	Delete(playerID string)
}

// RoundService contains the quiz use cases: one round per player.
type RoundService struct {
	rounds RoundRepository
}

func NewRoundService(rounds RoundRepository) *RoundService {
	return &RoundService{rounds: rounds}
}

// Open creates the player's round if needed and reports its state.
func (s *RoundService) Open(_ context.Context, playerID string) domain.RoundSnapshot {
	return s.rounds.GetOrCreate(playerID).snapshot()
}

// Start arms the player's countdown.
func (s *RoundService) Start(_ context.Context, playerID string) (domain.RoundSnapshot, error) {
	round, ok := s.rounds.Get(playerID)
	if !ok {
		return domain.RoundSnapshot{}, domain.ErrRoundNotFound
	}
	return round.apply(func(r *game.Round) { r.Start() }), nil
}

// Submit scores one answer for the player and moves to the next problem.
func (s *RoundService) Submit(_ context.Context, playerID, answer string) (domain.RoundSnapshot, error) {
	round, ok := s.rounds.Get(playerID)
	if !ok {
		return domain.RoundSnapshot{}, domain.ErrRoundNotFound
	}
	return round.apply(func(r *game.Round) { r.Submit(answer) }), nil
}

// Tick advances the player's countdown by the elapsed wall-clock time.
func (s *RoundService) Tick(_ context.Context, playerID string, elapsed time.Duration) (domain.RoundSnapshot, error) {
	round, ok := s.rounds.Get(playerID)
	if !ok {
		return domain.RoundSnapshot{}, domain.ErrRoundNotFound
	}
	return round.tick(elapsed), nil
}

// Reset rebuilds the player's round from scratch.
func (s *RoundService) Reset(_ context.Context, playerID string) (domain.RoundSnapshot, error) {
	round, ok := s.rounds.Get(playerID)
	if !ok {
		return domain.RoundSnapshot{}, domain.ErrRoundNotFound
	}
	return round.apply(func(r *game.Round) { r.Reset() }), nil
}

// Subscribe returns a channel that receives a snapshot after every state
// transition. The caller must invoke the returned cancel function to avoid
// leaks.
func (s *RoundService) Subscribe(_ context.Context, playerID string) (<-chan domain.RoundSnapshot, func(), error) {
	round, ok := s.rounds.Get(playerID)
	if !ok {
		return nil, nil, domain.ErrRoundNotFound
	}
	ch, cancel := round.subscribe()
	return ch, cancel, nil
}

// Leave drops the player's round.
func (s *RoundService) Leave(_ context.Context, playerID string) {
	s.rounds.Delete(playerID)
}

// Round wraps the single-threaded game core so concurrent transports can
// drive it. All mutation goes through the mutex, and every transition is
// fanned out to subscribers.
type Round struct {
	playerID string

	mu          sync.Mutex
	core        *game.Round
	subscribers map[chan domain.RoundSnapshot]struct{}
}

// NewRound is exported for store implementations.
func NewRound(playerID string, rules game.Rules) *Round {
	return NewRoundWithRand(playerID, rules, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRoundWithRand allows deterministic problem sequences in tests.
func NewRoundWithRand(playerID string, rules game.Rules, rng *rand.Rand) *Round {
	return &Round{
		playerID:    playerID,
		core:        game.NewRound(rules, rng),
		subscribers: make(map[chan domain.RoundSnapshot]struct{}),
	}
}

// PlayerID reports which player owns this round.
func (r *Round) PlayerID() string { return r.playerID }

// Answer exposes the live answer for tests; transports never see it.
func (r *Round) Answer() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.core.Problem().Answer
}

func (r *Round) apply(fn func(*game.Round)) domain.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.core)
	return r.broadcastLocked()
}

// tick only broadcasts while the countdown is live, so idle connections are
// not flooded with identical snapshots before Start or after game over.
func (r *Round) tick(elapsed time.Duration) domain.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.core.Running() {
		return r.snapshotLocked()
	}
	r.core.Tick(elapsed)
	return r.broadcastLocked()
}

func (r *Round) snapshot() domain.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Round) subscribe() (<-chan domain.RoundSnapshot, func()) {
	ch := make(chan domain.RoundSnapshot, 8)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	initial := r.snapshotLocked()
	r.mu.Unlock()

	ch <- initial

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Round) broadcastLocked() domain.RoundSnapshot {
	snap := r.snapshotLocked()
	for ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale update so a slow reader never blocks the round.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (r *Round) snapshotLocked() domain.RoundSnapshot {
	snap := r.core.Snapshot()
	snap.PlayerID = r.playerID
	return snap
}
