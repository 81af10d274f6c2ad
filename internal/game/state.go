package game

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/louisbranch/duality-table/internal/duality"
	"github.com/louisbranch/duality-table/internal/platform/id"
	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
)

// Session-wide constants.
const (
	FearStart = 5

	mapWidth    = 800.0
	mapHeight   = 600.0
	spawnMargin = 50.0
)

// Round-robin palette for newly created characters.
var characterPalette = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12",
	"#9b59b6", "#1abc9c", "#e67e22", "#e84393",
}

var (
	// ErrConnectionNotFound indicates an unknown connection id.
	ErrConnectionNotFound = apperrors.New(apperrors.CodeConnectionNotFound, "connection not found")
	// ErrCharacterNotFound indicates an unknown character id.
	ErrCharacterNotFound = apperrors.New(apperrors.CodeCharacterNotFound, "character not found")
	// ErrAlreadyControlled indicates a character claimed by another live connection.
	ErrAlreadyControlled = apperrors.New(apperrors.CodeAlreadyControlled, "character is controlled by another connection")
	// ErrUnknownResource indicates a resource kind outside hp, stress, and hope.
	ErrUnknownResource = apperrors.New(apperrors.CodeUnknownResource, "unknown resource kind")
	// ErrInvalidDifficulty indicates a non-positive roll difficulty.
	ErrInvalidDifficulty = apperrors.New(apperrors.CodeInvalidDifficulty, "difficulty must be at least 1")
	// ErrCombatNotActive indicates a combat operation outside an encounter.
	ErrCombatNotActive = apperrors.New(apperrors.CodeCombatNotActive, "no active combat encounter")
)

// State is the single owner of all session entities: characters, adversaries,
// connections, control mappings, pending roll requests, the combat encounter,
// the Fear pool, and the event log. Every public operation is atomic with
// respect to any concurrent caller; mutations take the write lock, queries the
// read lock.
type State struct {
	mu sync.RWMutex

	characters     map[string]*Character
	characterOrder []string
	adversaries    map[string]*Adversary
	adversaryOrder []string

	connections   map[string]struct{}
	controlByConn map[string]string
	controlByChar map[string]string

	requests map[string]*PendingRollRequest
	combat   *CombatEncounter
	fear     int
	events   eventLog

	templateCounts map[string]int
	paletteIndex   int

	thresholds duality.ThresholdRule
	rng        *rand.Rand
	now        func() time.Time
	newID      func() string
}

// Option configures a State.
type Option func(*State)

// WithRandomSeed seeds the state's dice and spawn randomness so a session
// replays deterministically.
func WithRandomSeed(seed int64) Option {
	return func(s *State) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// WithThresholds swaps the damage threshold table.
func WithThresholds(rule duality.ThresholdRule) Option {
	return func(s *State) {
		s.thresholds = rule
	}
}

// NewState returns an empty session with the starting Fear pool.
func NewState(opts ...Option) *State {
	s := &State{
		characters:     make(map[string]*Character),
		adversaries:    make(map[string]*Adversary),
		connections:    make(map[string]struct{}),
		controlByConn:  make(map[string]string),
		controlByChar:  make(map[string]string),
		requests:       make(map[string]*PendingRollRequest),
		templateCounts: make(map[string]int),
		fear:           FearStart,
		thresholds:     duality.NewStandardThresholds(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		now:            time.Now,
		newID:          id.MustNewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddConnection registers a new connection and returns its id.
func (s *State) AddConnection() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	connID := s.newID()
	s.connections[connID] = struct{}{}
	s.appendEvent(EventConnection, "connection opened")
	return connID
}

// RemoveConnection drops a connection and clears its control mapping. The
// controlled character, if any, is untouched.
func (s *State) RemoveConnection(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connections[connID]; !ok {
		return
	}
	delete(s.connections, connID)
	if charID, ok := s.controlByConn[connID]; ok {
		delete(s.controlByConn, connID)
		delete(s.controlByChar, charID)
	}
	s.appendEvent(EventConnection, "connection closed")
}

// SelectCharacter claims a character for a connection. Re-selecting the same
// character from the same connection is idempotent; a character claimed by a
// different live connection cannot be taken over.
func (s *State) SelectCharacter(connID, charID string) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connections[connID]; !ok {
		return Character{}, ErrConnectionNotFound
	}
	char, ok := s.characters[charID]
	if !ok {
		return Character{}, ErrCharacterNotFound
	}
	if owner, ok := s.controlByChar[charID]; ok {
		if owner == connID {
			return *char, nil
		}
		return Character{}, ErrAlreadyControlled
	}
	// Releasing a previously held character keeps the two maps in lock-step.
	if prev, ok := s.controlByConn[connID]; ok {
		delete(s.controlByChar, prev)
	}
	s.controlByConn[connID] = charID
	s.controlByChar[charID] = connID
	s.appendEvent(EventCharacter, char.Name+" is now controlled by a player")
	return *char, nil
}

// ControlledCharacter returns the character a connection currently controls.
func (s *State) ControlledCharacter(connID string) (Character, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	charID, ok := s.controlByConn[connID]
	if !ok {
		return Character{}, false
	}
	char, ok := s.characters[charID]
	if !ok {
		return Character{}, false
	}
	return *char, true
}

// Controller returns the connection controlling a character, if any.
func (s *State) Controller(charID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	connID, ok := s.controlByChar[charID]
	return connID, ok
}

// CreateCharacter builds a level-1 player character: derived hit points and
// evasion from the class/ancestry tables, a palette color assigned
// round-robin, and a pseudo-random spawn position away from the map edge.
func (s *State) CreateCharacter(name, class, ancestry string, attributeValues [6]int) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrs, err := AttributesFromArray(attributeValues)
	if err != nil {
		return Character{}, err
	}
	classStats, err := LookupClass(class)
	if err != nil {
		return Character{}, err
	}
	ancestryStats, err := LookupAncestry(ancestry)
	if err != nil {
		return Character{}, err
	}

	hpMax := DeriveHPMax(classStats, ancestryStats)
	char := &Character{
		ID:         s.newID(),
		Name:       name,
		Class:      class,
		Ancestry:   ancestry,
		Attributes: attrs,
		HP:         Resource{Current: hpMax, Maximum: hpMax},
		Stress:     Resource{Current: 0, Maximum: hpMax},
		Hope:       Resource{Current: HopeStart, Maximum: HopeMax},
		Evasion:    DeriveEvasion(classStats, ancestryStats),
		Position:   s.spawnPosition(),
		Color:      characterPalette[s.paletteIndex%len(characterPalette)],
		Level:      1,
	}
	s.paletteIndex++
	s.characters[char.ID] = char
	s.characterOrder = append(s.characterOrder, char.ID)
	s.appendEvent(EventCharacter, name+" joined the table")
	return *char, nil
}

// CreateNPC builds a GM-run character with an explicit hit-point maximum and
// no Hope capacity.
func (s *State) CreateNPC(name string, hpMax int) Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hpMax < 1 {
		hpMax = 1
	}
	char := &Character{
		ID:       s.newID(),
		Name:     name,
		HP:       Resource{Current: hpMax, Maximum: hpMax},
		Stress:   Resource{Current: 0, Maximum: hpMax},
		Hope:     Resource{Current: 0, Maximum: 0},
		Evasion:  10,
		Position: s.spawnPosition(),
		Color:    characterPalette[s.paletteIndex%len(characterPalette)],
		IsNPC:    true,
		Level:    1,
	}
	s.paletteIndex++
	s.characters[char.ID] = char
	s.characterOrder = append(s.characterOrder, char.ID)
	s.appendEvent(EventCharacter, name+" (NPC) joined the table")
	return *char
}

// MoveCharacter updates a character's map position. Unknown ids report false
// rather than an error; a stale move is not worth surfacing.
func (s *State) MoveCharacter(charID string, x, y float64) (Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	char, ok := s.characters[charID]
	if !ok {
		return Character{}, false
	}
	char.Position = Position{X: x, Y: y}
	return *char, true
}

// UpdateResource applies a signed delta to a character's hp, stress, or hope,
// clamped to the resource bounds.
func (s *State) UpdateResource(charID, kind string, delta int) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	char, ok := s.characters[charID]
	if !ok {
		return Character{}, ErrCharacterNotFound
	}

	var res *Resource
	switch kind {
	case "hp":
		res = &char.HP
	case "stress":
		res = &char.Stress
	case "hope":
		res = &char.Hope
	default:
		return Character{}, ErrUnknownResource
	}
	if delta >= 0 {
		res.Gain(delta)
	} else {
		res.Lose(-delta)
	}
	return *char, nil
}

// RemoveCharacter deletes a character and releases any control mapping.
func (s *State) RemoveCharacter(charID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	char, ok := s.characters[charID]
	if !ok {
		return ErrCharacterNotFound
	}
	delete(s.characters, charID)
	s.characterOrder = removeID(s.characterOrder, charID)
	if connID, ok := s.controlByChar[charID]; ok {
		delete(s.controlByChar, charID)
		delete(s.controlByConn, connID)
	}
	s.appendEvent(EventCharacter, char.Name+" left the table")
	return nil
}

// RollDuality performs a free-standing duality roll outside the request
// protocol. No difficulty is involved and no resources move.
func (s *State) RollDuality(modifier int, advantage bool) duality.Roll {
	s.mu.Lock()
	defer s.mu.Unlock()

	roll := duality.RollDuality(duality.RollRequest{
		Modifier:  modifier,
		Advantage: advantage,
		Seed:      s.rng.Int63(),
	})
	s.appendEvent(EventRoll, fmt.Sprintf("duality roll: %d Hope / %d Fear (total %d)",
		roll.HopeDie, roll.FearDie, roll.Total))
	return roll
}

// AppendEvent records a session event with bounded history.
func (s *State) AppendEvent(eventType EventType, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendEvent(eventType, message)
}

// Events returns the session log, oldest first.
func (s *State) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.list()
}

// Fear returns the session Fear pool.
func (s *State) Fear() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fear
}

// Characters lists all characters in creation order.
func (s *State) Characters() []Character {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Character, 0, len(s.characterOrder))
	for _, charID := range s.characterOrder {
		out = append(out, *s.characters[charID])
	}
	return out
}

// Character returns a character by id.
func (s *State) Character(charID string) (Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	char, ok := s.characters[charID]
	if !ok {
		return Character{}, ErrCharacterNotFound
	}
	return *char, nil
}

// Adversaries lists all adversaries in spawn order.
func (s *State) Adversaries() []Adversary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Adversary, 0, len(s.adversaryOrder))
	for _, advID := range s.adversaryOrder {
		out = append(out, *s.adversaries[advID])
	}
	return out
}

// Adversary returns an adversary by id.
func (s *State) Adversary(advID string) (Adversary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	adv, ok := s.adversaries[advID]
	if !ok {
		return Adversary{}, ErrAdversaryNotFound
	}
	return *adv, nil
}

// SpawnAdversary instantiates a template at a position. Same-template spawns
// are numbered sequentially; the first keeps the plain display name, later
// ones get a " #2", " #3" suffix.
func (s *State) SpawnAdversary(templateID string, pos Position) (Adversary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, err := TemplateByID(templateID)
	if err != nil {
		return Adversary{}, err
	}

	s.templateCounts[templateID]++
	name := tpl.Name
	if n := s.templateCounts[templateID]; n > 1 {
		name = fmt.Sprintf("%s #%d", tpl.Name, n)
	}

	adv := &Adversary{
		ID:             s.newID(),
		Name:           name,
		TemplateID:     templateID,
		Position:       s.clampPosition(pos),
		HP:             Resource{Current: tpl.HP, Maximum: tpl.HP},
		Stress:         Resource{Current: 0, Maximum: tpl.HP},
		Evasion:        tpl.Evasion,
		Armor:          tpl.Armor,
		AttackModifier: tpl.AttackModifier,
		Damage:         tpl.Damage,
		Active:         true,
	}
	s.adversaries[adv.ID] = adv
	s.adversaryOrder = append(s.adversaryOrder, adv.ID)
	s.appendEvent(EventCombat, name+" appears")
	return *adv, nil
}

// CustomAdversarySpec is a GM-authored stat block.
type CustomAdversarySpec struct {
	Name           string
	Position       Position
	HP             int
	Evasion        int
	Armor          int
	AttackModifier int
	Damage         string
}

// SpawnCustomAdversary instantiates a one-off stat block.
func (s *State) SpawnCustomAdversary(spec CustomAdversarySpec) Adversary {
	s.mu.Lock()
	defer s.mu.Unlock()

	hp := spec.HP
	if hp < 1 {
		hp = 1
	}
	adv := &Adversary{
		ID:             s.newID(),
		Name:           spec.Name,
		Position:       s.clampPosition(spec.Position),
		HP:             Resource{Current: hp, Maximum: hp},
		Stress:         Resource{Current: 0, Maximum: hp},
		Evasion:        spec.Evasion,
		Armor:          spec.Armor,
		AttackModifier: spec.AttackModifier,
		Damage:         spec.Damage,
		Active:         true,
	}
	s.adversaries[adv.ID] = adv
	s.adversaryOrder = append(s.adversaryOrder, adv.ID)
	s.appendEvent(EventCombat, spec.Name+" appears")
	return *adv
}

// RemoveAdversary deletes an adversary from the session.
func (s *State) RemoveAdversary(advID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	adv, ok := s.adversaries[advID]
	if !ok {
		return ErrAdversaryNotFound
	}
	delete(s.adversaries, advID)
	s.adversaryOrder = removeID(s.adversaryOrder, advID)
	s.appendEvent(EventCombat, adv.Name+" is gone")
	return nil
}

// DamageAdversary applies hit-point loss and stress gain to an adversary and
// reports whether the hit took it out.
func (s *State) DamageAdversary(advID string, hpLost, stressGained int) (Adversary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adv, ok := s.adversaries[advID]
	if !ok {
		return Adversary{}, false, ErrAdversaryNotFound
	}
	adv.HP.Lose(hpLost)
	adv.Stress.Gain(stressGained)
	takenOut := adv.TakenOut()
	if takenOut {
		adv.Active = false
		s.appendEvent(EventCombat, adv.Name+" is taken out")
	}
	return *adv, takenOut, nil
}

func (s *State) appendEvent(eventType EventType, message string) {
	s.events.append(Event{At: s.now(), Type: eventType, Message: message})
}

func (s *State) gainFear(n int) {
	for i := 0; i < n; i++ {
		if s.fear == math.MaxInt {
			return
		}
		s.fear++
	}
}

func (s *State) spawnPosition() Position {
	return Position{
		X: spawnMargin + s.rng.Float64()*(mapWidth-2*spawnMargin),
		Y: spawnMargin + s.rng.Float64()*(mapHeight-2*spawnMargin),
	}
}

func (s *State) clampPosition(pos Position) Position {
	if pos.X == 0 && pos.Y == 0 {
		return s.spawnPosition()
	}
	pos.X = math.Min(math.Max(pos.X, 0), mapWidth)
	pos.Y = math.Min(math.Max(pos.Y, 0), mapHeight)
	return pos
}

func removeID(ids []string, target string) []string {
	for i, v := range ids {
		if v == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
