package duality

import "strings"

// RollType classifies a requested check.
type RollType int

const (
	RollAction RollType = iota
	RollAttack
	RollSpellcast
	RollSave
)

func (rt RollType) String() string {
	switch rt {
	case RollAttack:
		return "Attack"
	case RollSpellcast:
		return "Spellcast"
	case RollSave:
		return "Save"
	default:
		return "Action"
	}
}

// ParseRollType maps a wire name to a RollType. Unknown names fall back to
// Action, the least privileged check.
func ParseRollType(name string) RollType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "attack":
		return RollAttack
	case "spellcast":
		return RollSpellcast
	case "save":
		return RollSave
	default:
		return RollAction
	}
}

// UsesProficiency reports whether the roll type adds the proficiency bonus.
// Only weapon attacks and spellcasting scale with proficiency.
func (rt RollType) UsesProficiency() bool {
	return rt == RollAttack || rt == RollSpellcast
}

// ProficiencyBonus is the level-derived flat modifier: +1 at levels 1-3,
// +2 at 4-6, +3 at 7-9, and +4 from level 10 up.
func ProficiencyBonus(level int) int {
	switch {
	case level >= 10:
		return 4
	case level >= 7:
		return 3
	case level >= 4:
		return 2
	default:
		return 1
	}
}
