package game

import (
	"fmt"
	"math/rand"

	"github.com/zmanna/rapid-math/internal/domain"
)

// tierFor maps the player's score to an operand range and compound-problem
// eligibility. Three brackets: warm-up, medium, hard.
func tierFor(score int) (min, max int, compound bool) {
	switch {
	case score < 5:
		return 1, 10, false
	case score < 10:
		return 1, 20, true
	default:
		return 1, 50, true
	}
}

// Generate produces the next problem for the given score. Expressions are
// built answer-first: operands are drawn, then the answer is derived from
// them, so every problem has an exact integer answer without rejection
// sampling or floating point.
func Generate(rng *rand.Rand, score int) domain.Problem {
	min, max, compoundOK := tierFor(score)

	n1 := min + rng.Intn(max-min+1)
	n2 := min + rng.Intn(max-min+1)
	n3 := min + rng.Intn(max-min+1)

	if compoundOK && rng.Float64() < 0.3 {
		if rng.Intn(2) == 0 {
			return domain.Problem{
				Expression: fmt.Sprintf("%d * (%d + %d)", n1, n2, n3),
				Answer:     n1 * (n2 + n3),
				Compound:   true,
			}
		}
		// The dividend is built as n1+n3 so the quotient stays near n1/n3
		// scale. Operand ranges start at 1, so n3 is never actually zero;
		// the guard keeps the arithmetic total regardless.
		answer := 0
		if n3 != 0 {
			answer = (n1 + n3 - n2) / n3
		}
		return domain.Problem{
			Expression: fmt.Sprintf("(%d - %d) / %d", n1+n3, n2, n3),
			Answer:     answer,
			Compound:   true,
		}
	}

	switch rng.Intn(4) {
	case 0:
		return domain.Problem{Expression: fmt.Sprintf("%d + %d", n1, n2), Answer: n1 + n2}
	case 1:
		return domain.Problem{Expression: fmt.Sprintf("%d - %d", n1, n2), Answer: n1 - n2}
	case 2:
		return domain.Problem{Expression: fmt.Sprintf("%d * %d", n1, n2), Answer: n1 * n2}
	default:
		if n2 == 0 {
			// Divisor drawn as zero: substitute an addition instead.
			return domain.Problem{Expression: fmt.Sprintf("%d + %d", n1, 1), Answer: n1 + 1}
		}
		// Dividend is n1*n2, so the division is always exact.
		return domain.Problem{Expression: fmt.Sprintf("%d / %d", n1*n2, n2), Answer: n1}
	}
}
