// Package protocol defines the JSON messages exchanged over a table
// connection. Every message is a tagged envelope: a snake_case "type"
// discriminant plus a type-specific "payload" object.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client message types.
const (
	TypeSelectCharacter      = "select_character"
	TypeCreateCharacter      = "create_character"
	TypeCreateNPC            = "create_npc"
	TypeMoveCharacter        = "move_character"
	TypeRollDuality          = "roll_duality"
	TypeUpdateResource       = "update_resource"
	TypeRequestRoll          = "request_roll"
	TypeExecuteRoll          = "execute_roll"
	TypeRollRequestStatus    = "roll_request_status"
	TypeSpawnAdversary       = "spawn_adversary"
	TypeSpawnCustomAdversary = "spawn_custom_adversary"
	TypeRemoveAdversary      = "remove_adversary"
	TypeStartCombat          = "start_combat"
	TypeEndCombat            = "end_combat"
	TypeAddTrackerToken      = "add_tracker_token"
	TypeAdvanceTracker       = "advance_tracker"
	TypeAttack               = "attack"
	TypeRollDamage           = "roll_damage"
)

// Server message types.
const (
	TypeConnected           = "connected"
	TypeCharactersList      = "characters_list"
	TypeCharacterSelected   = "character_selected"
	TypeCharacterCreated    = "character_created"
	TypeCharacterMoved      = "character_moved"
	TypeCharacterUpdated    = "character_updated"
	TypeCharacterRemoved    = "character_removed"
	TypeRollResult          = "roll_result"
	TypeRollRequested       = "roll_requested"
	TypeDetailedRollResult  = "detailed_roll_result"
	TypeRequestStatusUpdate = "roll_request_status_update"
	TypeAdversarySpawned    = "adversary_spawned"
	TypeAdversaryUpdated    = "adversary_updated"
	TypeAdversaryRemoved    = "adversary_removed"
	TypeCombatStarted       = "combat_started"
	TypeCombatEnded         = "combat_ended"
	TypeTrackerUpdated      = "tracker_updated"
	TypeAttackResult        = "attack_result"
	TypeDamageResult        = "damage_result"
	TypeFearUpdated         = "fear_updated"
	TypeGameEvent           = "game_event"
	TypeError               = "error"
)

// ClientMessage is the inbound envelope. The payload stays raw until the
// dispatcher knows which struct to decode it into.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeClientMessage parses an inbound frame.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("decode client message: %w", err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("decode client message: missing type")
	}
	return msg, nil
}

// DecodePayload unmarshals the raw payload into a typed struct. An absent
// payload decodes into the zero value.
func (m ClientMessage) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return nil
}

// ServerMessage is the outbound envelope.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Encode marshals an outbound message to its wire form.
func Encode(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(ServerMessage{Type: msgType, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msgType, err)
	}
	return data, nil
}
