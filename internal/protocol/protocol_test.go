package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/louisbranch/duality-table/internal/duality"
	"github.com/louisbranch/duality-table/internal/game"
)

func TestDecodeClientMessage(t *testing.T) {
	raw := `{"type":"create_character","payload":{"name":"Theron","class":"Warrior","ancestry":"Human","attributes":[2,1,1,0,0,-1]}}`

	msg, err := DecodeClientMessage([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.Type != TypeCreateCharacter {
		t.Fatalf("type = %q, want %q", msg.Type, TypeCreateCharacter)
	}

	var payload CreateCharacter
	if err := msg.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Name != "Theron" || payload.Class != "Warrior" || payload.Ancestry != "Human" {
		t.Errorf("payload = %+v", payload)
	}
	if payload.Attributes != [6]int{2, 1, 1, 0, 0, -1} {
		t.Errorf("attributes = %v", payload.Attributes)
	}
}

func TestDecodeClientMessageRollDuality(t *testing.T) {
	raw := `{"type":"roll_duality","payload":{"modifier":2,"with_advantage":true}}`

	msg, err := DecodeClientMessage([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	var payload RollDuality
	if err := msg.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if payload.Modifier != 2 || !payload.WithAdvantage {
		t.Errorf("payload = %+v", payload)
	}
}

func TestDecodeClientMessageErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"missing type", `{"payload":{}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeClientMessage([]byte(tc.raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeClientMessageEmptyPayload(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"start_combat"}`))
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	var payload struct{}
	if err := msg.DecodePayload(&payload); err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
}

func TestEncodeEnvelopeShape(t *testing.T) {
	data, err := Encode(TypeError, Error{Message: "character not found"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if string(envelope["type"]) != `"error"` {
		t.Errorf("type = %s", envelope["type"])
	}
	if !strings.Contains(string(envelope["payload"]), "character not found") {
		t.Errorf("payload = %s", envelope["payload"])
	}
}

func TestFromCharacterWireShape(t *testing.T) {
	char := game.Character{
		ID:       "abc",
		Name:     "Theron",
		Class:    "Warrior",
		Ancestry: "Human",
		Attributes: game.Attributes{
			Agility: 2, Strength: 1, Finesse: 1, Instinct: 0, Presence: 0, Knowledge: -1,
		},
		HP:       game.Resource{Current: 6, Maximum: 6},
		Stress:   game.Resource{Current: 0, Maximum: 6},
		Hope:     game.Resource{Current: 2, Maximum: 6},
		Evasion:  12,
		Position: game.Position{X: 100, Y: 200},
		Color:    "#3498db",
		Level:    1,
	}

	data, err := Encode(TypeCharacterCreated, CharacterCreated{Character: FromCharacter(char)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, want := range []string{
		`"character_created"`, `"Theron"`, `"agility":2`, `"knowledge":-1`,
		`"hp":{"current":6,"maximum":6}`, `"evasion":12`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("wire form missing %s: %s", want, data)
		}
	}
}

func TestFromRoll(t *testing.T) {
	roll := duality.Roll{HopeDie: 7, FearDie: 7, Modifier: 2, Total: 16}
	data := FromRoll(roll)

	if data.Hope != 7 || data.Fear != 7 {
		t.Errorf("dice = %d/%d", data.Hope, data.Fear)
	}
	if data.ControllingDie != "Tied" {
		t.Errorf("controlling = %q, want Tied", data.ControllingDie)
	}
	if !data.IsCritical {
		t.Error("tied roll not critical")
	}
}

func TestFromRollExecution(t *testing.T) {
	exec := game.RollExecution{
		RequestID:           "req",
		CharacterID:         "char",
		CharacterName:       "Theron",
		RollType:            duality.RollAttack,
		Attribute:           "strength",
		AttributeModifier:   1,
		ProficiencyModifier: 1,
		SituationalModifier: 2,
		HopeBonus:           2,
		TotalModifier:       6,
		Roll:                duality.Roll{HopeDie: 9, FearDie: 4, Modifier: 6, Total: 19},
		Difficulty:          12,
		Tier:                duality.TierSuccessWithHope,
		HopeSpent:           true,
		HopeChange:          0,
		FearChange:          0,
		RequestComplete:     true,
	}

	result := FromRollExecution(exec)
	if result.Modifiers.Total != 6 {
		t.Errorf("total modifier = %d, want 6", result.Modifiers.Total)
	}
	if result.Modifiers.Attribute+result.Modifiers.Proficiency+
		result.Modifiers.Situational+result.Modifiers.HopeBonus != result.Modifiers.Total {
		t.Error("modifier components do not sum to total")
	}
	if result.Tier != "Success with Hope" {
		t.Errorf("tier = %q", result.Tier)
	}
	if result.RollType != "Attack" {
		t.Errorf("roll type = %q", result.RollType)
	}
}

func TestFromEncounter(t *testing.T) {
	encounter := game.CombatEncounter{
		ID:      "enc",
		Active:  true,
		Round:   1,
		Tracker: game.NewActionTracker(),
	}

	data := FromEncounter(encounter)
	if data.Round != 1 || data.PCTokens != 3 || data.AdversaryTokens != 3 {
		t.Errorf("tracker data = %+v", data)
	}
	want := []string{"pc", "pc", "pc", "adversary", "adversary", "adversary"}
	if len(data.Queue) != len(want) {
		t.Fatalf("queue = %v", data.Queue)
	}
	for i := range want {
		if data.Queue[i] != want[i] {
			t.Errorf("queue[%d] = %q, want %q", i, data.Queue[i], want[i])
		}
	}
}
