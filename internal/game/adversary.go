package game

import (
	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
)

// ErrTemplateNotFound indicates an unknown adversary template id.
var ErrTemplateNotFound = apperrors.New(apperrors.CodeTemplateNotFound, "adversary template not found")

// ErrAdversaryNotFound indicates an unknown adversary id.
var ErrAdversaryNotFound = apperrors.New(apperrors.CodeAdversaryNotFound, "adversary not found")

// Adversary is a GM-controlled combatant spawned from a template or a custom
// stat block.
type Adversary struct {
	ID             string
	Name           string
	TemplateID     string
	Position       Position
	HP             Resource
	Stress         Resource
	Evasion        int
	Armor          int
	AttackModifier int
	Damage         string // dice expression, e.g. "2d8+2"
	Active         bool
}

// TakenOut reports the terminal combat condition, identical to characters:
// zero hit points and maximum stress.
func (a Adversary) TakenOut() bool {
	return a.HP.IsEmpty() && a.Stress.IsFull()
}

// AdversaryTemplate is a spawnable enemy stat block.
type AdversaryTemplate struct {
	ID             string
	Name           string
	Tier           string
	HP             int
	Evasion        int
	Armor          int
	AttackModifier int
	Damage         string
	Description    string
}

// Built-in adversary roster, ordered by tier.
var adversaryTemplates = []AdversaryTemplate{
	{
		ID: "goblin", Name: "Goblin", Tier: "common",
		HP: 3, Evasion: 10, Armor: 1, AttackModifier: 1, Damage: "1d6",
		Description: "Small, cunning raiders with crude weapons",
	},
	{
		ID: "bandit", Name: "Bandit", Tier: "common",
		HP: 4, Evasion: 11, Armor: 2, AttackModifier: 1, Damage: "1d6+1",
		Description: "Opportunistic outlaws and thieves",
	},
	{
		ID: "wolf", Name: "Wolf", Tier: "common",
		HP: 3, Evasion: 12, Armor: 0, AttackModifier: 2, Damage: "1d6",
		Description: "Swift pack hunters with sharp fangs",
	},
	{
		ID: "orc_warrior", Name: "Orc Warrior", Tier: "medium",
		HP: 5, Evasion: 10, Armor: 3, AttackModifier: 2, Damage: "1d8+2",
		Description: "Brutal melee combatants clad in heavy armor",
	},
	{
		ID: "shadow_beast", Name: "Shadow Beast", Tier: "medium",
		HP: 4, Evasion: 13, Armor: 1, AttackModifier: 3, Damage: "1d8",
		Description: "Ethereal predators from the shadowlands",
	},
	{
		ID: "ogre", Name: "Ogre", Tier: "boss",
		HP: 8, Evasion: 9, Armor: 4, AttackModifier: 3, Damage: "2d6+3",
		Description: "Massive, dim-witted brutes with devastating strength",
	},
	{
		ID: "dragon_wyrmling", Name: "Dragon Wyrmling", Tier: "boss",
		HP: 10, Evasion: 12, Armor: 5, AttackModifier: 4, Damage: "2d8+2",
		Description: "Young dragon with deadly breath and sharp claws",
	},
}

// Templates returns the built-in adversary roster.
func Templates() []AdversaryTemplate {
	out := make([]AdversaryTemplate, len(adversaryTemplates))
	copy(out, adversaryTemplates)
	return out
}

// TemplateByID resolves a template id against the built-in roster.
func TemplateByID(id string) (AdversaryTemplate, error) {
	for _, tpl := range adversaryTemplates {
		if tpl.ID == id {
			return tpl, nil
		}
	}
	return AdversaryTemplate{}, ErrTemplateNotFound
}
