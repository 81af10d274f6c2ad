package game

import "time"

// Event log bounds. The log keeps roughly the most recent eventKeep entries;
// once it grows past eventLimit the oldest entries are dropped in one batch
// rather than one at a time.
const (
	eventLimit = 500
	eventKeep  = 400
)

// EventType classifies a session event.
type EventType string

const (
	EventConnection EventType = "connection"
	EventCharacter  EventType = "character"
	EventRoll       EventType = "roll"
	EventCombat     EventType = "combat"
	EventDamage     EventType = "damage"
	EventSession    EventType = "session"
)

// Event is a single timestamped entry in the session log.
type Event struct {
	At      time.Time `json:"at"`
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

// eventLog is the append-only, bounded session history.
type eventLog struct {
	entries []Event
}

// append adds an entry and trims the oldest batch when over the limit.
func (l *eventLog) append(event Event) {
	l.entries = append(l.entries, event)
	if len(l.entries) > eventLimit {
		kept := l.entries[len(l.entries)-eventKeep:]
		l.entries = append(l.entries[:0:0], kept...)
	}
}

// list returns a copy of the entries, oldest first.
func (l *eventLog) list() []Event {
	out := make([]Event, len(l.entries))
	copy(out, l.entries)
	return out
}
