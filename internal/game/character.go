// Package game holds the session engine: the entity model, the world state
// authority, the roll-request protocol, and the combat action tracker.
package game

import (
	"strings"

	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
)

// Resource caps for player characters.
const (
	HopeStart = 2
	HopeMax   = 6
)

var (
	// ErrUnknownClass indicates a class name outside the roster.
	ErrUnknownClass = apperrors.New(apperrors.CodeUnknownClass, "unknown class")
	// ErrUnknownAncestry indicates an ancestry name outside the roster.
	ErrUnknownAncestry = apperrors.New(apperrors.CodeUnknownAncestry, "unknown ancestry")
	// ErrInvalidAttributes indicates an attribute spread that breaks the creation budget.
	ErrInvalidAttributes = apperrors.New(apperrors.CodeInvalidAttributes,
		"attribute distribution must be exactly [+2, +1, +1, 0, 0, -1] in any order")
)

// Position is a 2D map location.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Resource tracks a bounded current/maximum pair.
// Invariant: 0 <= Current <= Maximum.
type Resource struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
}

// Gain raises Current by n, capped at Maximum.
func (r *Resource) Gain(n int) {
	if n <= 0 {
		return
	}
	r.Current += n
	if r.Current > r.Maximum {
		r.Current = r.Maximum
	}
}

// Lose lowers Current by n, floored at zero.
func (r *Resource) Lose(n int) {
	if n <= 0 {
		return
	}
	r.Current -= n
	if r.Current < 0 {
		r.Current = 0
	}
}

// IsFull reports whether the resource sits at its maximum.
func (r Resource) IsFull() bool {
	return r.Current >= r.Maximum
}

// IsEmpty reports whether the resource is depleted.
func (r Resource) IsEmpty() bool {
	return r.Current <= 0
}

// Attributes are the six signed character attributes.
type Attributes struct {
	Agility   int `json:"agility"`
	Strength  int `json:"strength"`
	Finesse   int `json:"finesse"`
	Instinct  int `json:"instinct"`
	Presence  int `json:"presence"`
	Knowledge int `json:"knowledge"`
}

// AttributesFromArray builds Attributes from the wire order
// [agility, strength, finesse, instinct, presence, knowledge] after
// validating the creation budget.
func AttributesFromArray(values [6]int) (Attributes, error) {
	if !validAttributeSpread(values) {
		return Attributes{}, ErrInvalidAttributes
	}
	return Attributes{
		Agility:   values[0],
		Strength:  values[1],
		Finesse:   values[2],
		Instinct:  values[3],
		Presence:  values[4],
		Knowledge: values[5],
	}, nil
}

// Array returns the attributes in wire order.
func (a Attributes) Array() [6]int {
	return [6]int{a.Agility, a.Strength, a.Finesse, a.Instinct, a.Presence, a.Knowledge}
}

// ByName looks up an attribute by case-insensitive name.
// Unknown names return (0, false); callers decide what absence means.
func (a Attributes) ByName(name string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "agility":
		return a.Agility, true
	case "strength":
		return a.Strength, true
	case "finesse":
		return a.Finesse, true
	case "instinct":
		return a.Instinct, true
	case "presence":
		return a.Presence, true
	case "knowledge":
		return a.Knowledge, true
	default:
		return 0, false
	}
}

// validAttributeSpread checks the creation budget: one +2, two +1, two 0,
// one -1, in any order.
func validAttributeSpread(values [6]int) bool {
	counts := make(map[int]int, 4)
	for _, v := range values {
		counts[v]++
	}
	return len(counts) == 4 && counts[2] == 1 && counts[1] == 2 && counts[0] == 2 && counts[-1] == 1
}

// Character is a persistent player or non-player entity.
type Character struct {
	ID          string
	Name        string
	Class       string
	Ancestry    string
	Attributes  Attributes
	HP          Resource
	Stress      Resource
	Hope        Resource
	Evasion     int
	Position    Position
	Color       string
	IsNPC       bool
	Level       int
	Experiences []string
}

// TakenOut reports the terminal combat condition: zero hit points and
// maximum stress. It is distinct from removal; a taken-out character stays
// in the session.
func (c Character) TakenOut() bool {
	return c.HP.IsEmpty() && c.Stress.IsFull()
}

// HasExperience reports whether the character carries the named experience
// tag (case-insensitive).
func (c Character) HasExperience(name string) bool {
	for _, exp := range c.Experiences {
		if strings.EqualFold(exp, name) {
			return true
		}
	}
	return false
}

// ClassStats are the class contributions to derived stats.
type ClassStats struct {
	HPBase      int
	EvasionBase int
}

// AncestryStats are the ancestry modifiers to derived stats.
type AncestryStats struct {
	HPMod      int
	EvasionMod int
}

var classes = map[string]ClassStats{
	"Bard":     {HPBase: 5, EvasionBase: 11},
	"Druid":    {HPBase: 6, EvasionBase: 10},
	"Guardian": {HPBase: 7, EvasionBase: 9},
	"Ranger":   {HPBase: 6, EvasionBase: 11},
	"Rogue":    {HPBase: 5, EvasionBase: 12},
	"Seraph":   {HPBase: 7, EvasionBase: 10},
	"Sorcerer": {HPBase: 6, EvasionBase: 10},
	"Warrior":  {HPBase: 6, EvasionBase: 11},
	"Wizard":   {HPBase: 5, EvasionBase: 10},
}

var ancestries = map[string]AncestryStats{
	"Clank":    {HPMod: 0, EvasionMod: 1},
	"Daemon":   {HPMod: 1, EvasionMod: 0},
	"Drakona":  {HPMod: 1, EvasionMod: 0},
	"Dwarf":    {HPMod: 1, EvasionMod: 0},
	"Faerie":   {HPMod: -1, EvasionMod: 2},
	"Faun":     {HPMod: 0, EvasionMod: 1},
	"Fungril":  {HPMod: 0, EvasionMod: 0},
	"Galapa":   {HPMod: 1, EvasionMod: -1},
	"Giant":    {HPMod: 2, EvasionMod: -1},
	"Goblin":   {HPMod: -1, EvasionMod: 2},
	"Halfling": {HPMod: -1, EvasionMod: 1},
	"Human":    {HPMod: 0, EvasionMod: 1},
	"Inferis":  {HPMod: 0, EvasionMod: 1},
	"Katari":   {HPMod: 0, EvasionMod: 1},
	"Orc":      {HPMod: 1, EvasionMod: 0},
	"Ribbet":   {HPMod: -1, EvasionMod: 1},
	"Simiah":   {HPMod: 0, EvasionMod: 1},
}

// LookupClass resolves a class name to its stats.
func LookupClass(name string) (ClassStats, error) {
	stats, ok := classes[name]
	if !ok {
		return ClassStats{}, ErrUnknownClass
	}
	return stats, nil
}

// LookupAncestry resolves an ancestry name to its modifiers.
func LookupAncestry(name string) (AncestryStats, error) {
	stats, ok := ancestries[name]
	if !ok {
		return AncestryStats{}, ErrUnknownAncestry
	}
	return stats, nil
}

// DeriveHPMax computes the hit-point maximum for a class/ancestry pair,
// floored at 1.
func DeriveHPMax(class ClassStats, ancestry AncestryStats) int {
	hpMax := class.HPBase + ancestry.HPMod
	if hpMax < 1 {
		hpMax = 1
	}
	return hpMax
}

// DeriveEvasion computes evasion for a class/ancestry pair.
func DeriveEvasion(class ClassStats, ancestry AncestryStats) int {
	return class.EvasionBase + ancestry.EvasionMod
}
