package protocol

import (
	"github.com/louisbranch/duality-table/internal/duality"
	"github.com/louisbranch/duality-table/internal/game"
)

// Client payloads.

type SelectCharacter struct {
	CharacterID string `json:"character_id"`
}

type CreateCharacter struct {
	Name       string `json:"name"`
	Class      string `json:"class"`
	Ancestry   string `json:"ancestry"`
	Attributes [6]int `json:"attributes"` // [agility, strength, finesse, instinct, presence, knowledge]
}

type CreateNPC struct {
	Name  string `json:"name"`
	HPMax int    `json:"hp_max"`
}

type MoveCharacter struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RollDuality struct {
	Modifier      int  `json:"modifier"`
	WithAdvantage bool `json:"with_advantage"`
}

type UpdateResource struct {
	Resource string `json:"resource"` // "hp", "stress", or "hope"
	Amount   int    `json:"amount"`   // positive = gain, negative = lose
}

type RequestRoll struct {
	TargetIDs           []string `json:"target_ids"`
	RollType            string   `json:"roll_type"`
	Attribute           string   `json:"attribute,omitempty"`
	Difficulty          int      `json:"difficulty"`
	Context             string   `json:"context,omitempty"`
	Stakes              string   `json:"stakes,omitempty"`
	SituationalModifier int      `json:"situational_modifier,omitempty"`
	WithAdvantage       bool     `json:"with_advantage,omitempty"`
	Combat              bool     `json:"combat,omitempty"`
}

type ExecuteRoll struct {
	RequestID  string `json:"request_id"`
	SpendHope  bool   `json:"spend_hope,omitempty"`
	Experience string `json:"experience,omitempty"`
}

type RollRequestStatus struct {
	RequestID string `json:"request_id"`
}

type SpawnAdversary struct {
	TemplateID string  `json:"template_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type SpawnCustomAdversary struct {
	Name           string  `json:"name"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	HP             int     `json:"hp"`
	Evasion        int     `json:"evasion"`
	Armor          int     `json:"armor"`
	AttackModifier int     `json:"attack_modifier"`
	Damage         string  `json:"damage"`
}

type RemoveAdversary struct {
	AdversaryID string `json:"adversary_id"`
}

type AddTrackerToken struct {
	Kind string `json:"kind"` // "pc" or "adversary"
}

type Attack struct {
	AttackerID    string `json:"attacker_id"`
	TargetID      string `json:"target_id"`
	Modifier      int    `json:"modifier"`
	WithAdvantage bool   `json:"with_advantage,omitempty"`
}

type RollDamage struct {
	AttackerID string `json:"attacker_id"`
	TargetID   string `json:"target_id"`
	Damage     string `json:"damage"`
	Armor      int    `json:"armor"`
}

// Server payloads.

type Connected struct {
	ConnectionID string `json:"connection_id"`
}

// CharacterData is the wire view of a character.
type CharacterData struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Class       string          `json:"class,omitempty"`
	Ancestry    string          `json:"ancestry,omitempty"`
	Attributes  game.Attributes `json:"attributes"`
	HP          game.Resource   `json:"hp"`
	Stress      game.Resource   `json:"stress"`
	Hope        game.Resource   `json:"hope"`
	Evasion     int             `json:"evasion"`
	Position    game.Position   `json:"position"`
	Color       string          `json:"color"`
	IsNPC       bool            `json:"is_npc"`
	Level       int             `json:"level"`
	Experiences []string        `json:"experiences,omitempty"`
}

// FromCharacter builds the wire view of a character.
func FromCharacter(c game.Character) CharacterData {
	return CharacterData{
		ID:          c.ID,
		Name:        c.Name,
		Class:       c.Class,
		Ancestry:    c.Ancestry,
		Attributes:  c.Attributes,
		HP:          c.HP,
		Stress:      c.Stress,
		Hope:        c.Hope,
		Evasion:     c.Evasion,
		Position:    c.Position,
		Color:       c.Color,
		IsNPC:       c.IsNPC,
		Level:       c.Level,
		Experiences: c.Experiences,
	}
}

type CharactersList struct {
	Characters []CharacterData `json:"characters"`
}

type CharacterSelected struct {
	ConnectionID string `json:"connection_id"`
	CharacterID  string `json:"character_id"`
	Name         string `json:"name"`
}

type CharacterCreated struct {
	Character CharacterData `json:"character"`
}

type CharacterMoved struct {
	CharacterID string        `json:"character_id"`
	Position    game.Position `json:"position"`
}

type CharacterUpdated struct {
	Character CharacterData `json:"character"`
}

type CharacterRemoved struct {
	CharacterID string `json:"character_id"`
}

// RollData is the wire view of a duality roll.
type RollData struct {
	Hope           int    `json:"hope"`
	Fear           int    `json:"fear"`
	Advantage      int    `json:"advantage,omitempty"`
	Modifier       int    `json:"modifier"`
	Total          int    `json:"total"`
	ControllingDie string `json:"controlling_die"` // "Hope", "Fear", or "Tied"
	IsCritical     bool   `json:"is_critical"`
}

// FromRoll builds the wire view of a roll.
func FromRoll(r duality.Roll) RollData {
	return RollData{
		Hope:           r.HopeDie,
		Fear:           r.FearDie,
		Advantage:      r.AdvantageDie,
		Modifier:       r.Modifier,
		Total:          r.Total,
		ControllingDie: r.Controlling().String(),
		IsCritical:     r.IsCritical(),
	}
}

type RollResult struct {
	ConnectionID string   `json:"connection_id"`
	Name         string   `json:"name"`
	Roll         RollData `json:"roll"`
}

// ModifierBreakdown exposes every modifier component separately.
type ModifierBreakdown struct {
	Attribute   int `json:"attribute"`
	Proficiency int `json:"proficiency"`
	Situational int `json:"situational"`
	HopeBonus   int `json:"hope_bonus,omitempty"`
	Total       int `json:"total"`
}

// RollRequested is sent once per target; the modifiers are that target's own.
type RollRequested struct {
	RequestID     string                `json:"request_id"`
	CharacterID   string                `json:"character_id"`
	RollType      string                `json:"roll_type"`
	Attribute     string                `json:"attribute,omitempty"`
	Difficulty    int                   `json:"difficulty"`
	Context       string                `json:"context,omitempty"`
	Stakes        string                `json:"stakes,omitempty"`
	WithAdvantage bool                  `json:"with_advantage,omitempty"`
	Combat        bool                  `json:"combat,omitempty"`
	Modifiers     game.PreviewModifiers `json:"modifiers"`
}

type DetailedRollResult struct {
	RequestID     string `json:"request_id"`
	CharacterID   string `json:"character_id"`
	CharacterName string `json:"character_name"`
	RollType      string `json:"roll_type"`
	Attribute     string `json:"attribute,omitempty"`
	Experience    string `json:"experience,omitempty"`

	Modifiers ModifierBreakdown `json:"modifiers"`
	Roll      RollData          `json:"roll"`

	Difficulty int    `json:"difficulty"`
	Tier       string `json:"tier"`
	HopeSpent  bool   `json:"hope_spent,omitempty"`
	HopeChange int    `json:"hope_change"`
	FearChange int    `json:"fear_change"`

	RequestComplete bool `json:"request_complete"`
}

// FromRollExecution builds the wire view of a resolved roll request.
func FromRollExecution(e game.RollExecution) DetailedRollResult {
	return DetailedRollResult{
		RequestID:     e.RequestID,
		CharacterID:   e.CharacterID,
		CharacterName: e.CharacterName,
		RollType:      e.RollType.String(),
		Attribute:     e.Attribute,
		Experience:    e.Experience,
		Modifiers: ModifierBreakdown{
			Attribute:   e.AttributeModifier,
			Proficiency: e.ProficiencyModifier,
			Situational: e.SituationalModifier,
			HopeBonus:   e.HopeBonus,
			Total:       e.TotalModifier,
		},
		Roll:            FromRoll(e.Roll),
		Difficulty:      e.Difficulty,
		Tier:            e.Tier.String(),
		HopeSpent:       e.HopeSpent,
		HopeChange:      e.HopeChange,
		FearChange:      e.FearChange,
		RequestComplete: e.RequestComplete,
	}
}

type RequestStatusUpdate struct {
	RequestID string   `json:"request_id"`
	Pending   []string `json:"pending"`
	Completed []string `json:"completed"`
}

// AdversaryData is the wire view of an adversary.
type AdversaryData struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	TemplateID     string        `json:"template_id,omitempty"`
	Position       game.Position `json:"position"`
	HP             game.Resource `json:"hp"`
	Stress         game.Resource `json:"stress"`
	Evasion        int           `json:"evasion"`
	Armor          int           `json:"armor"`
	AttackModifier int           `json:"attack_modifier"`
	Damage         string        `json:"damage"`
	Active         bool          `json:"active"`
}

// FromAdversary builds the wire view of an adversary.
func FromAdversary(a game.Adversary) AdversaryData {
	return AdversaryData{
		ID:             a.ID,
		Name:           a.Name,
		TemplateID:     a.TemplateID,
		Position:       a.Position,
		HP:             a.HP,
		Stress:         a.Stress,
		Evasion:        a.Evasion,
		Armor:          a.Armor,
		AttackModifier: a.AttackModifier,
		Damage:         a.Damage,
		Active:         a.Active,
	}
}

type AdversarySpawned struct {
	Adversary AdversaryData `json:"adversary"`
}

type AdversaryUpdated struct {
	Adversary AdversaryData `json:"adversary"`
}

type AdversaryRemoved struct {
	AdversaryID string `json:"adversary_id"`
}

// TrackerData is the wire view of the combat encounter.
type TrackerData struct {
	EncounterID     string   `json:"encounter_id"`
	Round           int      `json:"round"`
	PCTokens        int      `json:"pc_tokens"`
	AdversaryTokens int      `json:"adversary_tokens"`
	Queue           []string `json:"queue"`
}

// FromEncounter builds the wire view of a combat encounter.
func FromEncounter(e game.CombatEncounter) TrackerData {
	queue := make([]string, 0, e.Tracker.Len())
	for _, kind := range e.Tracker.Tokens() {
		queue = append(queue, kind.String())
	}
	return TrackerData{
		EncounterID:     e.ID,
		Round:           e.Round,
		PCTokens:        e.Tracker.PCTokens,
		AdversaryTokens: e.Tracker.AdversaryTokens,
		Queue:           queue,
	}
}

type CombatStarted struct {
	Encounter TrackerData `json:"encounter"`
}

type TrackerUpdated struct {
	Encounter TrackerData `json:"encounter"`
}

type AttackResult struct {
	AttackerID    string   `json:"attacker_id"`
	AttackerName  string   `json:"attacker_name"`
	TargetID      string   `json:"target_id"`
	TargetName    string   `json:"target_name"`
	Roll          RollData `json:"roll"`
	TargetEvasion int      `json:"target_evasion"`
	Hit           bool     `json:"hit"`
}

// FromAttackResult builds the wire view of an attack resolution.
func FromAttackResult(r game.AttackResult) AttackResult {
	return AttackResult{
		AttackerID:    r.AttackerID,
		AttackerName:  r.AttackerName,
		TargetID:      r.TargetID,
		TargetName:    r.TargetName,
		Roll:          FromRoll(r.Roll),
		TargetEvasion: r.TargetEvasion,
		Hit:           r.Hit,
	}
}

type DamageResult struct {
	AttackerID   string `json:"attacker_id"`
	AttackerName string `json:"attacker_name"`
	TargetID     string `json:"target_id"`
	TargetName   string `json:"target_name"`

	Expression string `json:"expression"`
	RawDamage  int    `json:"raw_damage"`
	Armor      int    `json:"armor"`
	Severity   string `json:"severity"`

	HPLost       int           `json:"hp_lost"`
	StressGained int           `json:"stress_gained"`
	TargetHP     game.Resource `json:"target_hp"`
	TargetStress game.Resource `json:"target_stress"`
	TakenOut     bool          `json:"taken_out"`
}

// FromDamageResult builds the wire view of a damage resolution.
func FromDamageResult(r game.DamageResult) DamageResult {
	return DamageResult{
		AttackerID:   r.AttackerID,
		AttackerName: r.AttackerName,
		TargetID:     r.TargetID,
		TargetName:   r.TargetName,
		Expression:   r.Expression,
		RawDamage:    r.RawDamage,
		Armor:        r.Armor,
		Severity:     r.Outcome.Severity.String(),
		HPLost:       r.Outcome.HPLost,
		StressGained: r.Outcome.StressGained,
		TargetHP:     r.TargetHP,
		TargetStress: r.TargetStress,
		TakenOut:     r.TakenOut,
	}
}

type FearUpdated struct {
	Fear int `json:"fear"`
}

type GameEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}
