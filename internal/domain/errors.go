package domain

import "errors"

var (
	// ErrRoundNotFound is returned when a player acts before opening a round.
	ErrRoundNotFound = errors.New("round not found")
)
