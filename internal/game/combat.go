package game

import (
	"fmt"

	"github.com/louisbranch/duality-table/internal/core/dice"
	"github.com/louisbranch/duality-table/internal/duality"
)

// StartCombat opens a fresh encounter at round 1 with the canonical token
// queue. Any previous encounter is discarded.
func (s *State) StartCombat() CombatEncounter {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.combat = &CombatEncounter{
		ID:      s.newID(),
		Active:  true,
		Round:   1,
		Tracker: NewActionTracker(),
	}
	s.appendEvent(EventCombat, "combat started")
	return s.snapshotCombat()
}

// EndCombat discards the encounter. Reports whether one was active.
func (s *State) EndCombat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.combat == nil {
		return false
	}
	s.combat = nil
	s.appendEvent(EventCombat, "combat ended")
	return true
}

// Combat returns a snapshot of the active encounter.
func (s *State) Combat() (CombatEncounter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.combat == nil {
		return CombatEncounter{}, false
	}
	return s.snapshotCombat(), true
}

// AddTrackerToken appends a single token to the encounter queue.
func (s *State) AddTrackerToken(kind TokenKind) (CombatEncounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.combat == nil {
		return CombatEncounter{}, ErrCombatNotActive
	}
	s.combat.Tracker.Add(kind)
	return s.snapshotCombat(), nil
}

// AdvanceToken pops the front token off the encounter queue. Exhausting the
// queue refills it to the canonical configuration and advances the round.
func (s *State) AdvanceToken() (TokenKind, CombatEncounter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.combat == nil {
		return TokenPC, CombatEncounter{}, ErrCombatNotActive
	}
	kind, ok := s.combat.Tracker.Pop()
	if !ok {
		s.combat.Tracker.RefillIfEmpty()
		s.combat.Round++
		return TokenPC, s.snapshotCombat(), nil
	}
	if s.combat.Tracker.RefillIfEmpty() {
		s.combat.Round++
	}
	s.appendEvent(EventCombat, kind.String()+" token spent")
	return kind, s.snapshotCombat(), nil
}

// AttackResult is the outcome of an attack roll against a target's evasion.
type AttackResult struct {
	AttackerID   string
	AttackerName string
	TargetID     string
	TargetName   string

	Roll          duality.Roll
	TargetEvasion int
	Hit           bool
	Critical      bool
}

// Attack rolls a duality attack for one combatant against another. The attack
// hits when the total meets the target's evasion; tied dice hit regardless.
func (s *State) Attack(attackerID, targetID string, modifier int, advantage bool) (AttackResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attacker, ok := s.lookupCombatant(attackerID)
	if !ok {
		return AttackResult{}, ErrCharacterNotFound
	}
	target, ok := s.lookupCombatant(targetID)
	if !ok {
		return AttackResult{}, ErrCharacterNotFound
	}

	roll := duality.RollDuality(duality.RollRequest{
		Modifier:  modifier,
		Advantage: advantage,
		Seed:      s.rng.Int63(),
	})
	hit := roll.IsCritical() || roll.Total >= target.evasion

	verb := "misses"
	if hit {
		verb = "hits"
	}
	s.appendEvent(EventCombat, fmt.Sprintf("%s %s %s (%d vs evasion %d)",
		attacker.name, verb, target.name, roll.Total, target.evasion))

	return AttackResult{
		AttackerID:    attackerID,
		AttackerName:  attacker.name,
		TargetID:      targetID,
		TargetName:    target.name,
		Roll:          roll,
		TargetEvasion: target.evasion,
		Hit:           hit,
		Critical:      roll.IsCritical(),
	}, nil
}

// DamageResult is the outcome of rolling a damage expression against a
// target's armor and applying the threshold rule.
type DamageResult struct {
	AttackerID   string
	AttackerName string
	TargetID     string
	TargetName   string

	Expression string
	RawDamage  int
	Armor      int
	Outcome    duality.DamageOutcome

	TargetHP          Resource
	TargetStress      Resource
	TakenOut          bool
	TargetIsAdversary bool
}

// ResolveDamage evaluates a damage expression, pushes it through the armor
// threshold rule, and applies the loss to the target in one step. Malformed
// expressions degrade to zero or a flat value; damage never aborts mid-combat
// over a typo.
func (s *State) ResolveDamage(attackerID, targetID, expression string, armor int) (DamageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attacker, ok := s.lookupCombatant(attackerID)
	if !ok {
		return DamageResult{}, ErrCharacterNotFound
	}

	expr := dice.ParseExpr(expression)
	raw := expr.RollSeeded(s.rng.Int63())
	outcome := s.thresholds.Resolve(raw, armor)

	result := DamageResult{
		AttackerID:   attackerID,
		AttackerName: attacker.name,
		TargetID:     targetID,
		Expression:   expr.String(),
		RawDamage:    raw,
		Armor:        armor,
		Outcome:      outcome,
	}

	if adv, ok := s.adversaries[targetID]; ok {
		adv.HP.Lose(outcome.HPLost)
		adv.Stress.Gain(outcome.StressGained)
		if adv.TakenOut() {
			adv.Active = false
		}
		result.TargetName = adv.Name
		result.TargetHP = adv.HP
		result.TargetStress = adv.Stress
		result.TakenOut = adv.TakenOut()
		result.TargetIsAdversary = true
	} else if char, ok := s.characters[targetID]; ok {
		char.HP.Lose(outcome.HPLost)
		char.Stress.Gain(outcome.StressGained)
		result.TargetName = char.Name
		result.TargetHP = char.HP
		result.TargetStress = char.Stress
		result.TakenOut = char.TakenOut()
	} else {
		return DamageResult{}, ErrCharacterNotFound
	}

	s.appendEvent(EventDamage, fmt.Sprintf("%s deals %d damage to %s (%s)",
		attacker.name, raw, result.TargetName, outcome.Severity))
	if result.TakenOut {
		s.appendEvent(EventCombat, result.TargetName+" is taken out")
	}
	return result, nil
}

type combatant struct {
	name    string
	evasion int
}

func (s *State) lookupCombatant(entityID string) (combatant, bool) {
	if char, ok := s.characters[entityID]; ok {
		return combatant{name: char.Name, evasion: char.Evasion}, true
	}
	if adv, ok := s.adversaries[entityID]; ok {
		return combatant{name: adv.Name, evasion: adv.Evasion}, true
	}
	return combatant{}, false
}

func (s *State) snapshotCombat() CombatEncounter {
	out := *s.combat
	tracker := *s.combat.Tracker
	tracker.Queue = append([]TokenKind(nil), s.combat.Tracker.Queue...)
	out.Tracker = &tracker
	return out
}
