package server

import (
	"fmt"
	"testing"
)

func TestHubBroadcastPreservesOrder(t *testing.T) {
	hub := NewHub()
	frames := hub.Subscribe("conn-1")

	for i := 0; i < 10; i++ {
		hub.Broadcast([]byte(fmt.Sprintf("msg-%d", i)))
	}
	for i := 0; i < 10; i++ {
		got := string(<-frames)
		want := fmt.Sprintf("msg-%d", i)
		if got != want {
			t.Fatalf("frame %d = %q, want %q", i, got, want)
		}
	}
}

func TestHubSendTargetsOneSubscriber(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe("a")
	b := hub.Subscribe("b")

	hub.Send("a", []byte("private"))

	if got := string(<-a); got != "private" {
		t.Fatalf("a received %q", got)
	}
	select {
	case frame := <-b:
		t.Fatalf("b received %q", frame)
	default:
	}
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	frames := hub.Subscribe("conn-1")
	hub.Unsubscribe("conn-1")

	if _, open := <-frames; open {
		t.Error("channel still open after unsubscribe")
	}
	if hub.Len() != 0 {
		t.Errorf("subscribers = %d, want 0", hub.Len())
	}

	// Broadcasting after the unsubscribe is harmless.
	hub.Broadcast([]byte("late"))
	hub.Send("conn-1", []byte("late"))
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	frames := hub.Subscribe("slow")

	// Fill the buffer and push one past it.
	for i := 0; i <= subscriberBuffer; i++ {
		hub.Broadcast([]byte("x"))
	}

	if hub.Len() != 0 {
		t.Fatalf("slow subscriber still registered (len=%d)", hub.Len())
	}
	// Every buffered frame is still delivered, then the channel closes.
	count := 0
	for range frames {
		count++
	}
	if count != subscriberBuffer {
		t.Errorf("delivered %d frames, want %d", count, subscriberBuffer)
	}
}
