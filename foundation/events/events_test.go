package events_test

import (
	"testing"

	"github.com/mikitasolo/borwwcoin/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan out events to subscribers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("1")
		ch2 := evts.Acquire("2")
		if evts.Acquire("1") != ch1 || evts.Count() != 2 {
			t.Fatalf("\t%s\tShould reuse the channel for a known id.", failed)
		}
		t.Logf("\t%s\tShould reuse the channel for a known id.", success)

		evts.Send("mined")
		if <-ch1 != "mined" || <-ch2 != "mined" {
			t.Fatalf("\t%s\tShould deliver the event to every subscriber.", failed)
		}
		t.Logf("\t%s\tShould deliver the event to every subscriber.", success)

		for range 105 {
			evts.Send("flood")
		}

		dropped, err := evts.Release("1")
		if err != nil {
			t.Fatalf("\t%s\tShould be able to release a subscriber: %v", failed, err)
		}
		if dropped != 5 {
			t.Fatalf("\t%s\tShould count the dropped events, got %d.", failed, dropped)
		}
		t.Logf("\t%s\tShould count the dropped events.", success)

		var received int
		for range ch1 {
			received++
		}
		if received != 100 {
			t.Fatalf("\t%s\tShould drain the buffered events then close, got %d.", failed, received)
		}
		if _, err := evts.Release("1"); err == nil {
			t.Fatalf("\t%s\tShould not release an unknown id.", failed)
		}
		t.Logf("\t%s\tShould be able to release a subscriber.", success)

		evts.Shutdown()
		for range ch2 {
		}
		if evts.Count() != 0 {
			t.Fatalf("\t%s\tShould remove every subscriber on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
