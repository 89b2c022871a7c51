package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/zmanna/rapid-math/internal/domain"
)

// Feedback messages shown after each transition.
const (
	FeedbackWelcome = "Press Start to begin!"
	FeedbackRunning = "Solve the problems!"
	FeedbackCorrect = "Correct!"
	FeedbackInvalid = "Invalid input. Try again!"
)

// Rules holds the timing and scoring knobs of a round. Use DefaultRules as
// the base; zero values are not meaningful.
type Rules struct {
	InitialTime    time.Duration
	CorrectBonus   time.Duration
	WrongPenalty   time.Duration
	SimplePoints   int
	CompoundPoints int
}

// DefaultRules returns the standard 30-second round.
func DefaultRules() Rules {
	return Rules{
		InitialTime:    30 * time.Second,
		CorrectBonus:   time.Second,
		WrongPenalty:   2 * time.Second,
		SimplePoints:   1,
		CompoundPoints: 2,
	}
}

// Round is the single-player quiz state machine. It is not safe for
// concurrent use: callers serialize access (the app layer wraps it in a
// mutex, the desktop UI drives it from its frame loop).
type Round struct {
	rules Rules
	rng   *rand.Rand

	problem   domain.Problem
	score     int
	correct   int
	wrong     int
	remaining time.Duration
	running   bool
	gameOver  bool
	feedback  string
}

// NewRound returns a fresh round with a first problem generated at score 0.
// The countdown does not run until Start is called.
func NewRound(rules Rules, rng *rand.Rand) *Round {
	return &Round{
		rules:     rules,
		rng:       rng,
		problem:   Generate(rng, 0),
		remaining: rules.InitialTime,
		feedback:  FeedbackWelcome,
	}
}

// Start arms the countdown. Calling it while running or after game over does
// nothing.
func (r *Round) Start() {
	if r.running || r.gameOver {
		return
	}
	r.running = true
	r.feedback = FeedbackRunning
}

// Tick advances the countdown by the wall-clock time elapsed since the
// previous tick. Crossing zero ends the round. Callers measure elapsed with
// a monotonic clock; the round itself never reads the clock.
func (r *Round) Tick(elapsed time.Duration) {
	if !r.running {
		return
	}
	if elapsed >= r.remaining {
		r.remaining = 0
		r.running = false
		r.gameOver = true
		return
	}
	r.remaining -= elapsed
}

// Submit scores one answer. Input that does not parse as a signed integer
// counts as a wrong answer. Every submission, right or wrong, moves on to a
// new problem generated at the updated score.
func (r *Round) Submit(raw string) {
	if !r.running {
		return
	}

	answer, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil:
		r.wrong++
		r.penalize()
		r.feedback = FeedbackInvalid
	case answer == r.problem.Answer:
		r.correct++
		if r.problem.Compound {
			r.score += r.rules.CompoundPoints
		} else {
			r.score += r.rules.SimplePoints
		}
		r.remaining += r.rules.CorrectBonus
		r.feedback = FeedbackCorrect
	default:
		r.wrong++
		r.penalize()
		r.feedback = fmt.Sprintf("Wrong! The correct answer was %d.", r.problem.Answer)
	}

	r.problem = Generate(r.rng, r.score)
}

// penalize docks the wrong-answer penalty, never dropping below zero. A round
// at zero remaining stays alive until the next tick observes it.
func (r *Round) penalize() {
	if r.rules.WrongPenalty >= r.remaining {
		r.remaining = 0
		return
	}
	r.remaining -= r.rules.WrongPenalty
}

// Reset discards all state and rebuilds the round from scratch, keeping the
// same rules and random source.
func (r *Round) Reset() {
	*r = *NewRound(r.rules, r.rng)
}

func (r *Round) Problem() domain.Problem { return r.problem }

func (r *Round) Score() int { return r.score }

func (r *Round) CorrectCount() int { return r.correct }

func (r *Round) WrongCount() int { return r.wrong }

func (r *Round) Remaining() time.Duration { return r.remaining }

func (r *Round) Running() bool { return r.running }

func (r *Round) GameOver() bool { return r.gameOver }

func (r *Round) Feedback() string { return r.feedback }

// Snapshot renders the round for transports. PlayerID is filled in by the
// app layer.
func (r *Round) Snapshot() domain.RoundSnapshot {
	return domain.RoundSnapshot{
		Expression:       r.problem.Expression,
		Score:            r.score,
		CorrectCount:     r.correct,
		WrongCount:       r.wrong,
		RemainingSeconds: int(r.remaining / time.Second),
		Running:          r.running,
		GameOver:         r.gameOver,
		Feedback:         r.feedback,
	}
}
