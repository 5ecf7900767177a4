package resolver

import (
	"testing"

	"github.com/teamKimtaerin/ecg-player/timing"
)

func doc(events ...timing.SyncEvent) *timing.Document {
	return &timing.Document{SyncEvents: events}
}

func TestActiveWordSelected(t *testing.T) {
	d := doc(timing.SyncEvent{
		EventID:    "A",
		SpeakerID:  "spk1",
		PreReading: timing.PreReading{Start: -0.5, End: 0.5},
		Words:      []timing.Word{{Word: "Hi", WordIndex: 0, Start: 0.0, End: 0.5}},
	})

	f := Resolve(d, 0.3, 0)
	if f.Primary == nil || f.Primary.Event.EventID != "A" {
		t.Fatalf("expected event A as primary, got %+v", f.Primary)
	}
	if f.Primary.ActiveWord != 0 || f.Primary.PreReading {
		t.Errorf("word Hi should be active: %+v", f.Primary)
	}
}

func TestOffsetShiftsIntoPreReading(t *testing.T) {
	d := doc(timing.SyncEvent{
		EventID:    "A",
		SpeakerID:  "spk1",
		PreReading: timing.PreReading{Start: -0.5, End: 0.5},
		Words:      []timing.Word{{Word: "Hi", WordIndex: 0, Start: 0.0, End: 0.5}},
	})

	// adjusted = 0.3 - 0.5 = -0.2: no active word, pre-reading fallback
	f := Resolve(d, 0.3, 0.5)
	if f.Adjusted != -0.2 {
		t.Fatalf("adjusted = %v, want -0.2", f.Adjusted)
	}
	if f.Primary == nil || !f.Primary.PreReading || f.Primary.ActiveWord != -1 {
		t.Fatalf("expected pre-reading fallback, got %+v", f.Primary)
	}
}

func TestLowestWordIndexWinsAcrossEvents(t *testing.T) {
	d := doc(
		timing.SyncEvent{
			EventID: "late", SpeakerID: "spk1",
			PreReading: timing.PreReading{Start: 0, End: 10},
			Words: []timing.Word{
				{Word: "one", WordIndex: 0, Start: 0, End: 1},
				{Word: "five", WordIndex: 4, Start: 4, End: 6},
			},
		},
		timing.SyncEvent{
			EventID: "fresh", SpeakerID: "spk2",
			PreReading: timing.PreReading{Start: 4, End: 8},
			Words:      []timing.Word{{Word: "start", WordIndex: 0, Start: 5, End: 6}},
		},
	)

	// both events have an active word at t=5.5; the sentence at its start wins
	f := Resolve(d, 5.5, 0)
	if f.Primary == nil || f.Primary.Event.EventID != "fresh" {
		t.Fatalf("expected lowest word_index event to win, got %+v", f.Primary)
	}
}

func TestTwoSlotOverlap(t *testing.T) {
	d := doc(
		timing.SyncEvent{
			EventID: "A", SpeakerID: "spk1",
			PreReading: timing.PreReading{Start: 0, End: 5},
			Words:      []timing.Word{{Word: "hello", WordIndex: 0, Start: 1, End: 2}},
		},
		timing.SyncEvent{
			EventID: "B", SpeakerID: "spk2",
			PreReading: timing.PreReading{Start: 0.5, End: 5},
			Words:      []timing.Word{{Word: "hey", WordIndex: 0, Start: 3, End: 4}},
		},
		timing.SyncEvent{
			EventID: "C", SpeakerID: "spk3",
			PreReading: timing.PreReading{Start: 0.8, End: 5},
			Words:      []timing.Word{{Word: "yo", WordIndex: 0, Start: 4.5, End: 4.8}},
		},
	)

	f := Resolve(d, 1.5, 0)
	if f.Primary == nil || f.Primary.Event.EventID != "A" || f.Primary.ActiveWord != 0 {
		t.Fatalf("active speaker must hold the primary slot: %+v", f.Primary)
	}
	if f.Secondary == nil || f.Secondary.Event.EventID != "B" {
		t.Fatalf("earliest other-speaker pre-reading should take the secondary slot: %+v", f.Secondary)
	}
	// third speaker C is dropped: only two slots exist
}

func TestSameSpeakerNeverTakesSecondSlot(t *testing.T) {
	d := doc(
		timing.SyncEvent{
			EventID: "A1", SpeakerID: "spk1",
			PreReading: timing.PreReading{Start: 0, End: 5},
			Words:      []timing.Word{{Word: "hi", WordIndex: 0, Start: 1, End: 2}},
		},
		timing.SyncEvent{
			EventID: "A2", SpeakerID: "spk1",
			PreReading: timing.PreReading{Start: 0, End: 5},
		},
	)
	f := Resolve(d, 1.5, 0)
	if f.Secondary != nil {
		t.Fatalf("same speaker must not occupy both slots: %+v", f.Secondary)
	}
}

func TestNoLiveEvents(t *testing.T) {
	d := doc(timing.SyncEvent{
		EventID: "A", SpeakerID: "spk1",
		PreReading: timing.PreReading{Start: 0, End: 1},
		Words:      []timing.Word{{Word: "hi", WordIndex: 0, Start: 0.2, End: 0.8}},
	})
	f := Resolve(d, 10, 0)
	if f.Primary != nil || f.Secondary != nil {
		t.Fatalf("nothing should be live at t=10: %+v", f)
	}
	if f = Resolve(nil, 1, 0); f.Primary != nil {
		t.Fatalf("nil document must resolve to an empty frame")
	}
}
