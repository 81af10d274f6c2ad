// Package dice implements deterministic dice rolling primitives.
package dice

import (
	"math/rand"

	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
)

// ErrMissingDice indicates a roll request had no dice specified.
var ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice must have positive sides and count")

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// Roll captures the results for a single dice spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Request describes a request to roll one or more dice.
type Request struct {
	Dice []Spec
	Seed int64
}

// Result captures the results from rolling multiple dice.
type Result struct {
	Rolls []Roll
	Total int
}

// RollDice rolls dice based on the provided request.
//
// RollDice is deterministic with respect to the Seed field on Request: given
// the same Seed and the same Dice slice (including order and values), it
// always produces the same Result. Dice specs are processed in slice order and
// the resulting Roll entries appear in the same order.
//
// Result.Total is the sum of every die rolled across the entire request.
func RollDice(request Request) (Result, error) {
	rng := rand.New(rand.NewSource(request.Seed))
	return RollWithRng(rng, request.Dice)
}

// RollWithRng rolls dice using a provided random source.
// Useful when several rolls must share one seeded sequence.
func RollWithRng(rng *rand.Rand, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}

	rolls := make([]Roll, 0, len(specs))
	total := 0

	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}

		results := make([]int, spec.Count)
		rollTotal := 0
		for i := 0; i < spec.Count; i++ {
			value := rollDie(rng, spec.Sides)
			results[i] = value
			rollTotal += value
		}

		rolls = append(rolls, Roll{
			Sides:   spec.Sides,
			Results: results,
			Total:   rollTotal,
		})
		total += rollTotal
	}

	return Result{
		Rolls: rolls,
		Total: total,
	}, nil
}

// rollDie rolls a single die with the provided number of sides.
func rollDie(rng *rand.Rand, sides int) int {
	return rng.Intn(sides) + 1
}
