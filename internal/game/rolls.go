package game

import (
	"fmt"

	"github.com/louisbranch/duality-table/internal/duality"
	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
)

// RollRequestParams describe a GM-initiated check.
type RollRequestParams struct {
	TargetIDs   []string
	RollType    duality.RollType
	Attribute   string
	Difficulty  int
	Context     string
	Stakes      string
	Situational int
	Advantage   bool
	Combat      bool
}

// RequestRoll opens a pending roll request against one or more characters.
// Unknown target ids are dropped; a request with no surviving target is
// rejected. The returned previews map holds each target's own modifier
// arithmetic so players see their numbers before rolling.
func (s *State) RequestRoll(params RollRequestParams) (PendingRollRequest, map[string]PreviewModifiers, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.Difficulty < 1 {
		return PendingRollRequest{}, nil, ErrInvalidDifficulty
	}

	var targets []string
	previews := make(map[string]PreviewModifiers)
	for _, charID := range params.TargetIDs {
		char, ok := s.characters[charID]
		if !ok {
			continue
		}
		targets = append(targets, charID)
		previews[charID] = previewModifiers(*char, params.RollType, params.Attribute, params.Situational)
	}
	if len(targets) == 0 {
		return PendingRollRequest{}, nil, ErrMissingTargets
	}

	request := &PendingRollRequest{
		ID:          s.newID(),
		TargetIDs:   targets,
		RollType:    params.RollType,
		Attribute:   params.Attribute,
		Difficulty:  params.Difficulty,
		Context:     params.Context,
		Stakes:      params.Stakes,
		Situational: params.Situational,
		Advantage:   params.Advantage,
		Combat:      params.Combat,
		Completed:   make(map[string]bool),
	}
	s.requests[request.ID] = request
	s.appendEvent(EventRoll, fmt.Sprintf("%s roll requested (difficulty %d) against %d character(s)",
		request.RollType, request.Difficulty, len(targets)))
	return *request, previews, nil
}

// ExecuteRoll resolves a pending request for one target. Each target resolves
// exactly once; spending a Hope point requires one in the pool and adds a
// flat bonus to the modifier. The result carries every modifier component
// separately so the arithmetic can be reconstructed from the payload alone.
func (s *State) ExecuteRoll(requestID, charID string, spendHope bool, experience string) (RollExecution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return RollExecution{}, ErrRequestNotFound
	}
	char, ok := s.characters[charID]
	if !ok {
		return RollExecution{}, ErrCharacterNotFound
	}
	if !request.IsTarget(charID) {
		return RollExecution{}, apperrors.New(apperrors.CodeCharacterNotFound,
			"character is not a target of this roll request")
	}
	if request.Resolved(charID) {
		return RollExecution{}, ErrAlreadyRolled
	}
	if spendHope && char.Hope.Current < 1 {
		return RollExecution{}, ErrInsufficientHope
	}

	attrMod := 0
	if request.Attribute != "" {
		if v, ok := char.Attributes.ByName(request.Attribute); ok {
			attrMod = v
		}
	}
	profMod := 0
	if request.RollType.UsesProficiency() {
		profMod = duality.ProficiencyBonus(char.Level)
	}
	hopeBonus := 0
	hopeSpent := 0
	if spendHope {
		char.Hope.Lose(1)
		hopeBonus = hopeSpendBonus
		hopeSpent = 1
	}
	totalMod := attrMod + profMod + request.Situational + hopeBonus

	roll := duality.RollDuality(duality.RollRequest{
		Modifier:  totalMod,
		Advantage: request.Advantage,
		Seed:      s.rng.Int63(),
	})
	tier := duality.EvaluateTier(roll, request.Difficulty)

	hopeDelta, fearDelta := duality.TierEffects(tier)
	char.Hope.Gain(hopeDelta)
	s.gainFear(fearDelta)

	request.Completed[charID] = true

	// Coordinator policy: a combat check consumes a tracker token. Hope-side
	// success keeps the initiative with the players, everything else hands a
	// token to the adversaries.
	if request.Combat && s.combat != nil && s.combat.Active {
		if tier == duality.TierSuccessWithHope {
			s.combat.Tracker.Consume(TokenPC)
		} else {
			s.combat.Tracker.Consume(TokenAdversary)
		}
		s.combat.Tracker.RefillIfEmpty()
	}

	if experience != "" && !char.HasExperience(experience) {
		experience = ""
	}

	s.appendEvent(EventRoll, fmt.Sprintf("%s rolled %s: %s (total %d vs difficulty %d)",
		char.Name, request.RollType, tier, roll.Total, request.Difficulty))

	return RollExecution{
		RequestID:     request.ID,
		CharacterID:   char.ID,
		CharacterName: char.Name,
		RollType:      request.RollType,
		Attribute:     request.Attribute,
		Experience:    experience,

		AttributeModifier:   attrMod,
		ProficiencyModifier: profMod,
		SituationalModifier: request.Situational,
		HopeBonus:           hopeBonus,
		TotalModifier:       totalMod,

		Roll:        roll,
		Difficulty:  request.Difficulty,
		Tier:        tier,
		Controlling: roll.Controlling(),
		Critical:    roll.IsCritical(),

		HopeSpent: spendHope,
		// Net delta: tier gain minus the spent point. The live resource moved
		// by both effects already; this is the reported change only.
		HopeChange: hopeDelta - hopeSpent,
		FearChange: fearDelta,

		RequestComplete: request.Complete(),
	}, nil
}

// RequestStatus reports which targets of a request are still pending and
// which have resolved, by character name.
func (s *State) RequestStatus(requestID string) (pending, completed []string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[requestID]
	if !ok {
		return nil, nil, ErrRequestNotFound
	}
	for _, charID := range request.TargetIDs {
		name := charID
		if char, ok := s.characters[charID]; ok {
			name = char.Name
		}
		if request.Resolved(charID) {
			completed = append(completed, name)
		} else {
			pending = append(pending, name)
		}
	}
	return pending, completed, nil
}

// RollRequest returns a pending request by id.
func (s *State) RollRequest(requestID string) (PendingRollRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[requestID]
	if !ok {
		return PendingRollRequest{}, ErrRequestNotFound
	}
	out := *request
	out.Completed = make(map[string]bool, len(request.Completed))
	for k, v := range request.Completed {
		out.Completed[k] = v
	}
	return out, nil
}

func previewModifiers(char Character, rollType duality.RollType, attribute string, situational int) PreviewModifiers {
	attrMod := 0
	if attribute != "" {
		if v, ok := char.Attributes.ByName(attribute); ok {
			attrMod = v
		}
	}
	profMod := 0
	if rollType.UsesProficiency() {
		profMod = duality.ProficiencyBonus(char.Level)
	}
	return PreviewModifiers{
		Attribute:   attrMod,
		Proficiency: profMod,
		Situational: situational,
		Total:       attrMod + profMod + situational,
	}
}
