package game

// CharacterRecord is the serializable form of a character handed to the
// persistence collaborator. Connections and control mappings are never
// persisted; only the entity itself round-trips.
type CharacterRecord struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Class         string   `json:"class"`
	Ancestry      string   `json:"ancestry"`
	Attributes    [6]int   `json:"attributes"`
	HPCurrent     int      `json:"hp_current"`
	HPMax         int      `json:"hp_max"`
	StressCurrent int      `json:"stress_current"`
	StressMax     int      `json:"stress_max"`
	HopeCurrent   int      `json:"hope_current"`
	HopeMax       int      `json:"hope_max"`
	Evasion       int      `json:"evasion"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Color         string   `json:"color"`
	IsNPC         bool     `json:"is_npc"`
	Level         int      `json:"level"`
	Experiences   []string `json:"experiences,omitempty"`
}

// Snapshot captures all characters as serializable records, in creation
// order.
func (s *State) Snapshot() []CharacterRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CharacterRecord, 0, len(s.characterOrder))
	for _, charID := range s.characterOrder {
		out = append(out, recordFromCharacter(*s.characters[charID]))
	}
	return out
}

// Restore replaces the character roster with the given records,
// reconstructing each resource tracker exactly as it was at snapshot time.
// Control mappings are cleared; controllers re-select after a load.
func (s *State) Restore(records []CharacterRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.characters = make(map[string]*Character, len(records))
	s.characterOrder = s.characterOrder[:0]
	s.controlByConn = make(map[string]string)
	s.controlByChar = make(map[string]string)

	for _, rec := range records {
		char := characterFromRecord(rec)
		s.characters[char.ID] = &char
		s.characterOrder = append(s.characterOrder, char.ID)
	}
	s.appendEvent(EventSession, "session restored")
}

func recordFromCharacter(char Character) CharacterRecord {
	return CharacterRecord{
		ID:            char.ID,
		Name:          char.Name,
		Class:         char.Class,
		Ancestry:      char.Ancestry,
		Attributes:    char.Attributes.Array(),
		HPCurrent:     char.HP.Current,
		HPMax:         char.HP.Maximum,
		StressCurrent: char.Stress.Current,
		StressMax:     char.Stress.Maximum,
		HopeCurrent:   char.Hope.Current,
		HopeMax:       char.Hope.Maximum,
		Evasion:       char.Evasion,
		X:             char.Position.X,
		Y:             char.Position.Y,
		Color:         char.Color,
		IsNPC:         char.IsNPC,
		Level:         char.Level,
		Experiences:   append([]string(nil), char.Experiences...),
	}
}

func characterFromRecord(rec CharacterRecord) Character {
	level := rec.Level
	if level < 1 {
		level = 1
	}
	values := rec.Attributes
	return Character{
		ID:       rec.ID,
		Name:     rec.Name,
		Class:    rec.Class,
		Ancestry: rec.Ancestry,
		Attributes: Attributes{
			Agility:   values[0],
			Strength:  values[1],
			Finesse:   values[2],
			Instinct:  values[3],
			Presence:  values[4],
			Knowledge: values[5],
		},
		HP:          Resource{Current: rec.HPCurrent, Maximum: rec.HPMax},
		Stress:      Resource{Current: rec.StressCurrent, Maximum: rec.StressMax},
		Hope:        Resource{Current: rec.HopeCurrent, Maximum: rec.HopeMax},
		Evasion:     rec.Evasion,
		Position:    Position{X: rec.X, Y: rec.Y},
		Color:       rec.Color,
		IsNPC:       rec.IsNPC,
		Level:       level,
		Experiences: append([]string(nil), rec.Experiences...),
	}
}
