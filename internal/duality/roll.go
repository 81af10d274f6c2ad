// Package duality implements the Duality 2d12 rules mechanics: action rolls,
// success tiers, proficiency scaling, and damage thresholds.
//
// An action roll draws two twelve-sided dice, one for Hope and one for Fear,
// plus an optional six-sided advantage die. The relative magnitude of the two
// d12s decides the controlling die; matching dice are tied and signal a
// critical outcome regardless of the total.
package duality

import (
	"github.com/louisbranch/duality-table/internal/core/dice"
)

// ControllingDie identifies which of the two duality dice controls a roll.
type ControllingDie int

const (
	ControllingTied ControllingDie = iota
	ControllingHope
	ControllingFear
)

func (c ControllingDie) String() string {
	switch c {
	case ControllingHope:
		return "Hope"
	case ControllingFear:
		return "Fear"
	default:
		return "Tied"
	}
}

// Tier categorizes a roll outcome against a difficulty threshold.
type Tier int

const (
	TierUnspecified Tier = iota
	TierCriticalSuccess
	TierSuccessWithHope
	TierSuccessWithFear
	TierFailure
)

func (t Tier) String() string {
	switch t {
	case TierCriticalSuccess:
		return "Critical Success"
	case TierSuccessWithHope:
		return "Success with Hope"
	case TierSuccessWithFear:
		return "Success with Fear"
	case TierFailure:
		return "Failure"
	default:
		return "Unspecified"
	}
}

// RollRequest describes a duality roll.
type RollRequest struct {
	Modifier  int
	Advantage bool
	Seed      int64
}

// Roll captures the drawn dice and the arithmetic of a duality roll.
type Roll struct {
	HopeDie      int
	FearDie      int
	AdvantageDie int // zero when rolled without advantage
	Modifier     int
	Total        int
	HasAdvantage bool
}

// Controlling returns which die controls the roll. Equal dice are tied.
func (r Roll) Controlling() ControllingDie {
	switch {
	case r.HopeDie > r.FearDie:
		return ControllingHope
	case r.FearDie > r.HopeDie:
		return ControllingFear
	default:
		return ControllingTied
	}
}

// IsCritical reports whether the duality dice are tied.
// The critical condition is independent of the total.
func (r Roll) IsCritical() bool {
	return r.HopeDie == r.FearDie
}

// RollDuality performs a duality roll from the provided request.
//
// The roll is deterministic with respect to the request Seed. The total is
// hope + fear + advantage die (when rolled) + modifier.
func RollDuality(request RollRequest) Roll {
	specs := []dice.Spec{{Sides: 12, Count: 2}}
	if request.Advantage {
		specs = append(specs, dice.Spec{Sides: 6, Count: 1})
	}

	result, err := dice.RollDice(dice.Request{Dice: specs, Seed: request.Seed})
	if err != nil {
		// Unreachable: the specs above are hardcoded and always valid.
		panic(err)
	}

	roll := Roll{
		HopeDie:      result.Rolls[0].Results[0],
		FearDie:      result.Rolls[0].Results[1],
		Modifier:     request.Modifier,
		HasAdvantage: request.Advantage,
	}
	if request.Advantage {
		roll.AdvantageDie = result.Rolls[1].Results[0]
	}
	roll.Total = roll.HopeDie + roll.FearDie + roll.AdvantageDie + request.Modifier

	return roll
}

// EvaluateTier resolves the success tier of a roll against a difficulty.
//
// Priority order: tied dice are always a critical success, then totals below
// the difficulty fail, then the controlling die picks the success flavor.
func EvaluateTier(roll Roll, difficulty int) Tier {
	switch {
	case roll.IsCritical():
		return TierCriticalSuccess
	case roll.Total < difficulty:
		return TierFailure
	case roll.Controlling() == ControllingHope:
		return TierSuccessWithHope
	default:
		return TierSuccessWithFear
	}
}

// TierEffects returns the Hope and Fear deltas a tier produces: a success
// with Hope grants the roller one Hope, a success with Fear grants the
// session one Fear, and criticals and failures change nothing.
//
// The engine only reports deltas; applying them against resource caps is the
// state authority's job.
func TierEffects(tier Tier) (hopeDelta, fearDelta int) {
	switch tier {
	case TierSuccessWithHope:
		return 1, 0
	case TierSuccessWithFear:
		return 0, 1
	default:
		return 0, 0
	}
}
