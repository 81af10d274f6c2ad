package game

// TokenKind is the color of an action-tracker token.
type TokenKind int

const (
	TokenPC TokenKind = iota
	TokenAdversary
)

func (k TokenKind) String() string {
	if k == TokenAdversary {
		return "adversary"
	}
	return "pc"
}

// Canonical starting queue: three PC tokens followed by three adversary
// tokens.
const canonicalTokensPerSide = 3

// ActionTracker is the combat turn-order queue. The tracker only knows how to
// pop, append, and refill; which kind of token a roll outcome consumes is the
// coordinating layer's policy, not the tracker's.
type ActionTracker struct {
	PCTokens        int
	AdversaryTokens int
	Queue           []TokenKind
}

// NewActionTracker returns a tracker loaded with the canonical queue.
func NewActionTracker() *ActionTracker {
	t := &ActionTracker{}
	t.reset()
	return t
}

func (t *ActionTracker) reset() {
	t.PCTokens = canonicalTokensPerSide
	t.AdversaryTokens = canonicalTokensPerSide
	t.Queue = t.Queue[:0]
	for i := 0; i < canonicalTokensPerSide; i++ {
		t.Queue = append(t.Queue, TokenPC)
	}
	for i := 0; i < canonicalTokensPerSide; i++ {
		t.Queue = append(t.Queue, TokenAdversary)
	}
}

// Pop removes and returns the front token. The leftmost token acts next.
// An empty queue yields (TokenPC, false): no next actor.
func (t *ActionTracker) Pop() (TokenKind, bool) {
	if len(t.Queue) == 0 {
		return TokenPC, false
	}
	kind := t.Queue[0]
	t.Queue = t.Queue[1:]
	t.decrement(kind)
	return kind, true
}

// Consume removes the frontmost token of the given kind, if any.
func (t *ActionTracker) Consume(kind TokenKind) bool {
	for i, token := range t.Queue {
		if token == kind {
			t.Queue = append(t.Queue[:i], t.Queue[i+1:]...)
			t.decrement(kind)
			return true
		}
	}
	return false
}

// Add appends a single token to the queue tail.
func (t *ActionTracker) Add(kind TokenKind) {
	t.Queue = append(t.Queue, kind)
	if kind == TokenAdversary {
		t.AdversaryTokens++
	} else {
		t.PCTokens++
	}
}

// RefillIfEmpty resets counters and queue to the canonical starting
// configuration when the queue is exhausted. Returns whether a refill
// happened.
func (t *ActionTracker) RefillIfEmpty() bool {
	if len(t.Queue) > 0 {
		return false
	}
	t.reset()
	return true
}

// Len returns the number of queued tokens.
func (t *ActionTracker) Len() int {
	return len(t.Queue)
}

// Tokens returns a copy of the queue, front first.
func (t *ActionTracker) Tokens() []TokenKind {
	out := make([]TokenKind, len(t.Queue))
	copy(out, t.Queue)
	return out
}

func (t *ActionTracker) decrement(kind TokenKind) {
	if kind == TokenAdversary {
		if t.AdversaryTokens > 0 {
			t.AdversaryTokens--
		}
	} else if t.PCTokens > 0 {
		t.PCTokens--
	}
}

// CombatEncounter is the zero-or-one active combat per session.
type CombatEncounter struct {
	ID      string
	Active  bool
	Round   int
	Tracker *ActionTracker
}
