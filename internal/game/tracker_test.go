package game

import "testing"

func TestActionTrackerPopLength(t *testing.T) {
	tracker := NewActionTracker()
	initial := tracker.Len()

	for n := 1; n <= initial; n++ {
		if _, ok := tracker.Pop(); !ok {
			t.Fatalf("pop %d reported empty queue", n)
		}
		if tracker.Len() != initial-n {
			t.Fatalf("length after %d pops = %d, want %d", n, tracker.Len(), initial-n)
		}
	}

	// Popping an empty queue yields no next actor.
	if _, ok := tracker.Pop(); ok {
		t.Error("pop on empty queue reported a token")
	}

	if !tracker.RefillIfEmpty() {
		t.Fatal("refill on empty queue reported false")
	}
	want := []TokenKind{TokenPC, TokenPC, TokenPC, TokenAdversary, TokenAdversary, TokenAdversary}
	got := tracker.Tokens()
	if len(got) != len(want) {
		t.Fatalf("refilled length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokens[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if tracker.PCTokens != 3 || tracker.AdversaryTokens != 3 {
		t.Errorf("counters = %d/%d, want 3/3", tracker.PCTokens, tracker.AdversaryTokens)
	}
}

func TestActionTrackerRefillSkipsNonEmpty(t *testing.T) {
	tracker := NewActionTracker()
	tracker.Pop()
	if tracker.RefillIfEmpty() {
		t.Error("refill fired on a non-empty queue")
	}
	if tracker.Len() != 5 {
		t.Errorf("length = %d, want 5", tracker.Len())
	}
}

func TestActionTrackerConsume(t *testing.T) {
	tracker := NewActionTracker()

	// Consuming an adversary token skips past the leading PC tokens.
	if !tracker.Consume(TokenAdversary) {
		t.Fatal("consume adversary failed")
	}
	if tracker.PCTokens != 3 || tracker.AdversaryTokens != 2 {
		t.Errorf("counters = %d/%d, want 3/2", tracker.PCTokens, tracker.AdversaryTokens)
	}
	if tracker.Tokens()[0] != TokenPC {
		t.Error("front token changed by mid-queue consume")
	}

	for i := 0; i < 3; i++ {
		tracker.Consume(TokenPC)
	}
	if tracker.Consume(TokenPC) {
		t.Error("consumed a PC token with none queued")
	}
}

func TestActionTrackerAdd(t *testing.T) {
	tracker := NewActionTracker()
	tracker.Add(TokenPC)
	if tracker.PCTokens != 4 {
		t.Errorf("pc counter = %d, want 4", tracker.PCTokens)
	}
	tokens := tracker.Tokens()
	if tokens[len(tokens)-1] != TokenPC {
		t.Error("added token not appended at the tail")
	}
}
