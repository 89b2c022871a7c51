package domain

// Problem is a generated arithmetic question together with its exact integer
// answer.
type Problem struct {
	Expression string
	Answer     int
	Compound   bool // order-of-operations problems score double
}

// RoundSnapshot is the read-model handed to transports and clients. It never
// carries the answer to the live problem.
type RoundSnapshot struct {
	PlayerID         string `json:"playerId"`
	Expression       string `json:"expression"`
	Score            int    `json:"score"`
	CorrectCount     int    `json:"correctCount"`
	WrongCount       int    `json:"wrongCount"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Running          bool   `json:"running"`
	GameOver         bool   `json:"gameOver"`
	Feedback         string `json:"feedback"`
}
