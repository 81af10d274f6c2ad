package server

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/duality-table/internal/duality"
	"github.com/louisbranch/duality-table/internal/game"
	apperrors "github.com/louisbranch/duality-table/internal/platform/errors"
	"github.com/louisbranch/duality-table/internal/protocol"
)

var tracer = otel.Tracer("github.com/louisbranch/duality-table/internal/server")

// dispatch maps one inbound intent to a state operation and fans the
// resulting notifications out. Failures go back to the origin connection
// only; successful mutations broadcast to everyone.
func (h *Handler) dispatch(ctx context.Context, connID string, msg protocol.ClientMessage) {
	_, span := tracer.Start(ctx, "intent."+msg.Type,
		trace.WithAttributes(attribute.String("connection.id", connID)))
	defer span.End()

	var err error
	switch msg.Type {
	case protocol.TypeSelectCharacter:
		err = h.selectCharacter(connID, msg)
	case protocol.TypeCreateCharacter:
		err = h.createCharacter(connID, msg)
	case protocol.TypeCreateNPC:
		err = h.createNPC(msg)
	case protocol.TypeMoveCharacter:
		err = h.moveCharacter(connID, msg)
	case protocol.TypeRollDuality:
		err = h.rollDuality(connID, msg)
	case protocol.TypeUpdateResource:
		err = h.updateResource(connID, msg)
	case protocol.TypeRequestRoll:
		err = h.requestRoll(msg)
	case protocol.TypeExecuteRoll:
		err = h.executeRoll(connID, msg)
	case protocol.TypeRollRequestStatus:
		err = h.requestStatus(connID, msg)
	case protocol.TypeSpawnAdversary:
		err = h.spawnAdversary(msg)
	case protocol.TypeSpawnCustomAdversary:
		err = h.spawnCustomAdversary(msg)
	case protocol.TypeRemoveAdversary:
		err = h.removeAdversary(msg)
	case protocol.TypeStartCombat:
		encounter := h.state.StartCombat()
		h.broadcast(protocol.TypeCombatStarted, protocol.CombatStarted{Encounter: protocol.FromEncounter(encounter)})
	case protocol.TypeEndCombat:
		if h.state.EndCombat() {
			h.broadcast(protocol.TypeCombatEnded, struct{}{})
		}
	case protocol.TypeAddTrackerToken:
		err = h.addTrackerToken(msg)
	case protocol.TypeAdvanceTracker:
		err = h.advanceTracker()
	case protocol.TypeAttack:
		err = h.attack(msg)
	case protocol.TypeRollDamage:
		err = h.rollDamage(msg)
	default:
		slog.Warn("unknown message type", "connection_id", connID, "type", msg.Type)
		h.sendTo(connID, protocol.TypeError, protocol.Error{Message: "unknown message type: " + msg.Type})
		return
	}
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		slog.Info("intent rejected", "connection_id", connID, "type", msg.Type, "error", err)
		h.sendError(connID, err)
	}
}

func (h *Handler) sendError(connID string, err error) {
	h.sendTo(connID, protocol.TypeError, protocol.Error{
		Code:    string(apperrors.GetCode(err)),
		Message: err.Error(),
	})
}

func (h *Handler) selectCharacter(connID string, msg protocol.ClientMessage) error {
	var payload protocol.SelectCharacter
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	char, err := h.state.SelectCharacter(connID, payload.CharacterID)
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeCharacterSelected, protocol.CharacterSelected{
		ConnectionID: connID,
		CharacterID:  char.ID,
		Name:         char.Name,
	})
	return nil
}

func (h *Handler) createCharacter(connID string, msg protocol.ClientMessage) error {
	var payload protocol.CreateCharacter
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	char, err := h.state.CreateCharacter(payload.Name, payload.Class, payload.Ancestry, payload.Attributes)
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeCharacterCreated, protocol.CharacterCreated{Character: protocol.FromCharacter(char)})
	h.broadcastCharacters()

	// Creating a character claims it for the creator when their hands are free.
	if _, controlled := h.state.ControlledCharacter(connID); !controlled {
		if _, err := h.state.SelectCharacter(connID, char.ID); err == nil {
			h.broadcast(protocol.TypeCharacterSelected, protocol.CharacterSelected{
				ConnectionID: connID,
				CharacterID:  char.ID,
				Name:         char.Name,
			})
		}
	}
	return nil
}

func (h *Handler) createNPC(msg protocol.ClientMessage) error {
	var payload protocol.CreateNPC
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	npc := h.state.CreateNPC(payload.Name, payload.HPMax)
	h.broadcast(protocol.TypeCharacterCreated, protocol.CharacterCreated{Character: protocol.FromCharacter(npc)})
	h.broadcastCharacters()
	return nil
}

func (h *Handler) moveCharacter(connID string, msg protocol.ClientMessage) error {
	var payload protocol.MoveCharacter
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	char, ok := h.state.ControlledCharacter(connID)
	if !ok {
		return game.ErrCharacterNotFound
	}
	moved, ok := h.state.MoveCharacter(char.ID, payload.X, payload.Y)
	if !ok {
		return nil
	}
	h.broadcast(protocol.TypeCharacterMoved, protocol.CharacterMoved{
		CharacterID: moved.ID,
		Position:    moved.Position,
	})
	return nil
}

func (h *Handler) rollDuality(connID string, msg protocol.ClientMessage) error {
	var payload protocol.RollDuality
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	name := "Unknown"
	if char, ok := h.state.ControlledCharacter(connID); ok {
		name = char.Name
	}
	roll := h.state.RollDuality(payload.Modifier, payload.WithAdvantage)
	h.broadcast(protocol.TypeRollResult, protocol.RollResult{
		ConnectionID: connID,
		Name:         name,
		Roll:         protocol.FromRoll(roll),
	})
	return nil
}

func (h *Handler) updateResource(connID string, msg protocol.ClientMessage) error {
	var payload protocol.UpdateResource
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	char, ok := h.state.ControlledCharacter(connID)
	if !ok {
		return game.ErrCharacterNotFound
	}
	updated, err := h.state.UpdateResource(char.ID, payload.Resource, payload.Amount)
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeCharacterUpdated, protocol.CharacterUpdated{Character: protocol.FromCharacter(updated)})
	return nil
}

func (h *Handler) requestRoll(msg protocol.ClientMessage) error {
	var payload protocol.RequestRoll
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	request, previews, err := h.state.RequestRoll(game.RollRequestParams{
		TargetIDs:   payload.TargetIDs,
		RollType:    duality.ParseRollType(payload.RollType),
		Attribute:   payload.Attribute,
		Difficulty:  payload.Difficulty,
		Context:     payload.Context,
		Stakes:      payload.Stakes,
		Situational: payload.SituationalModifier,
		Advantage:   payload.WithAdvantage,
		Combat:      payload.Combat,
	})
	if err != nil {
		return err
	}
	// One notification per target, each with that target's own arithmetic.
	for _, charID := range request.TargetIDs {
		h.broadcast(protocol.TypeRollRequested, protocol.RollRequested{
			RequestID:     request.ID,
			CharacterID:   charID,
			RollType:      request.RollType.String(),
			Attribute:     request.Attribute,
			Difficulty:    request.Difficulty,
			Context:       request.Context,
			Stakes:        request.Stakes,
			WithAdvantage: request.Advantage,
			Combat:        request.Combat,
			Modifiers:     previews[charID],
		})
	}
	return nil
}

func (h *Handler) executeRoll(connID string, msg protocol.ClientMessage) error {
	var payload protocol.ExecuteRoll
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	char, ok := h.state.ControlledCharacter(connID)
	if !ok {
		return game.ErrCharacterNotFound
	}
	result, err := h.state.ExecuteRoll(payload.RequestID, char.ID, payload.SpendHope, payload.Experience)
	if err != nil {
		return err
	}

	h.broadcast(protocol.TypeDetailedRollResult, protocol.FromRollExecution(result))
	if updated, err := h.state.Character(char.ID); err == nil {
		h.broadcast(protocol.TypeCharacterUpdated, protocol.CharacterUpdated{Character: protocol.FromCharacter(updated)})
	}
	if result.FearChange != 0 {
		h.broadcast(protocol.TypeFearUpdated, protocol.FearUpdated{Fear: h.state.Fear()})
	}
	if encounter, ok := h.state.Combat(); ok {
		h.broadcast(protocol.TypeTrackerUpdated, protocol.TrackerUpdated{Encounter: protocol.FromEncounter(encounter)})
	}
	h.broadcastRequestStatus(payload.RequestID)
	return nil
}

func (h *Handler) requestStatus(connID string, msg protocol.ClientMessage) error {
	var payload protocol.RollRequestStatus
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	pending, completed, err := h.state.RequestStatus(payload.RequestID)
	if err != nil {
		return err
	}
	h.sendTo(connID, protocol.TypeRequestStatusUpdate, protocol.RequestStatusUpdate{
		RequestID: payload.RequestID,
		Pending:   pending,
		Completed: completed,
	})
	return nil
}

func (h *Handler) broadcastRequestStatus(requestID string) {
	pending, completed, err := h.state.RequestStatus(requestID)
	if err != nil {
		return
	}
	h.broadcast(protocol.TypeRequestStatusUpdate, protocol.RequestStatusUpdate{
		RequestID: requestID,
		Pending:   pending,
		Completed: completed,
	})
}

func (h *Handler) spawnAdversary(msg protocol.ClientMessage) error {
	var payload protocol.SpawnAdversary
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	adv, err := h.state.SpawnAdversary(payload.TemplateID, game.Position{X: payload.X, Y: payload.Y})
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeAdversarySpawned, protocol.AdversarySpawned{Adversary: protocol.FromAdversary(adv)})
	return nil
}

func (h *Handler) spawnCustomAdversary(msg protocol.ClientMessage) error {
	var payload protocol.SpawnCustomAdversary
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	adv := h.state.SpawnCustomAdversary(game.CustomAdversarySpec{
		Name:           payload.Name,
		Position:       game.Position{X: payload.X, Y: payload.Y},
		HP:             payload.HP,
		Evasion:        payload.Evasion,
		Armor:          payload.Armor,
		AttackModifier: payload.AttackModifier,
		Damage:         payload.Damage,
	})
	h.broadcast(protocol.TypeAdversarySpawned, protocol.AdversarySpawned{Adversary: protocol.FromAdversary(adv)})
	return nil
}

func (h *Handler) removeAdversary(msg protocol.ClientMessage) error {
	var payload protocol.RemoveAdversary
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	if err := h.state.RemoveAdversary(payload.AdversaryID); err != nil {
		return err
	}
	h.broadcast(protocol.TypeAdversaryRemoved, protocol.AdversaryRemoved{AdversaryID: payload.AdversaryID})
	return nil
}

func (h *Handler) addTrackerToken(msg protocol.ClientMessage) error {
	var payload protocol.AddTrackerToken
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	kind := game.TokenPC
	if payload.Kind == "adversary" {
		kind = game.TokenAdversary
	}
	encounter, err := h.state.AddTrackerToken(kind)
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeTrackerUpdated, protocol.TrackerUpdated{Encounter: protocol.FromEncounter(encounter)})
	return nil
}

func (h *Handler) advanceTracker() error {
	_, encounter, err := h.state.AdvanceToken()
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeTrackerUpdated, protocol.TrackerUpdated{Encounter: protocol.FromEncounter(encounter)})
	return nil
}

func (h *Handler) attack(msg protocol.ClientMessage) error {
	var payload protocol.Attack
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	result, err := h.state.Attack(payload.AttackerID, payload.TargetID, payload.Modifier, payload.WithAdvantage)
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeAttackResult, protocol.FromAttackResult(result))
	return nil
}

func (h *Handler) rollDamage(msg protocol.ClientMessage) error {
	var payload protocol.RollDamage
	if err := msg.DecodePayload(&payload); err != nil {
		return err
	}
	result, err := h.state.ResolveDamage(payload.AttackerID, payload.TargetID, payload.Damage, payload.Armor)
	if err != nil {
		return err
	}
	h.broadcast(protocol.TypeDamageResult, protocol.FromDamageResult(result))
	if result.TakenOut {
		h.broadcast(protocol.TypeGameEvent, protocol.GameEvent{
			Type:    string(game.EventDamage),
			Message: result.TargetName + " is taken out",
		})
	}

	// Keep every viewer's picture of the target current.
	if result.TargetIsAdversary {
		if adv, err := h.state.Adversary(result.TargetID); err == nil {
			h.broadcast(protocol.TypeAdversaryUpdated, protocol.AdversaryUpdated{Adversary: protocol.FromAdversary(adv)})
		}
	} else if char, err := h.state.Character(result.TargetID); err == nil {
		h.broadcast(protocol.TypeCharacterUpdated, protocol.CharacterUpdated{Character: protocol.FromCharacter(char)})
	}
	return nil
}
