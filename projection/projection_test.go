package projection

import (
	"reflect"
	"testing"

	"github.com/teamKimtaerin/ecg-player/animation"
	"github.com/teamKimtaerin/ecg-player/layout"
	"github.com/teamKimtaerin/ecg-player/resolver"
	"github.com/teamKimtaerin/ecg-player/timing"
)

func testDoc(t *testing.T) *timing.Document {
	t.Helper()
	doc := &timing.Document{SyncEvents: []timing.SyncEvent{
		{
			EventID:    "e1",
			SpeakerID:  "alice",
			PreReading: timing.PreReading{Start: 0.5, End: 3.0},
			Words: []timing.Word{
				{Word: "hello", WordIndex: 0, Start: 1.0, End: 2.0},
				{Word: "there", WordIndex: 1, Start: 2.0, End: 3.0},
			},
		},
		{
			EventID:    "e2",
			SpeakerID:  "bob",
			PreReading: timing.PreReading{Start: 1.0, End: 5.0},
			Words: []timing.Word{
				{Word: "later", WordIndex: 0, Start: 3.5, End: 4.5},
			},
		},
	}}
	if err := doc.Normalize(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Validate(); err != nil {
		t.Fatal(err)
	}
	return doc
}

var vp = animation.Viewport{W: 1280, H: 720}

func project(doc *timing.Document, at float64) Snapshot {
	frame := resolver.Resolve(doc, at, 0)
	eng := layout.New(nil)
	anim := animation.NewManager()
	if frame.Primary != nil {
		seg, _ := eng.SegmentFor(frame.Primary.Event, frame.Adjusted, vp.W, vp.H)
		anim.Track(frame.Primary.Event, seg, vp)
	}
	if frame.Secondary != nil {
		seg, _ := eng.SegmentFor(frame.Secondary.Event, frame.Adjusted, vp.W, vp.H)
		anim.Track(frame.Secondary.Event, seg, vp)
	}
	anim.UpdateWave(frame.Adjusted)
	return Project(frame, eng, anim, doc.Effective(), vp)
}

func TestProjectIsRecomputable(t *testing.T) {
	doc := testDoc(t)
	a := project(doc, 1.5)
	b := project(doc, 1.5)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same inputs produced different snapshots:\n%+v\n%+v", a, b)
	}
}

func TestProjectSlotsAndGeometry(t *testing.T) {
	doc := testDoc(t)
	snap := project(doc, 1.5)
	if len(snap.Boxes) != 2 {
		t.Fatalf("expected primary+secondary, got %d boxes", len(snap.Boxes))
	}
	p, s := snap.Boxes[0], snap.Boxes[1]
	if p.Slot != SlotPrimary || p.EventID != "e1" || p.Speaker != "alice" {
		t.Fatalf("bad primary box: %+v", p)
	}
	if s.Slot != SlotSecondary || s.EventID != "e2" || s.Speaker != "bob" {
		t.Fatalf("bad secondary box: %+v", s)
	}
	set := timing.DefaultLayout()
	wantX := 1280 * set.WorkArea.LeftMarginPercent / 100
	wantW := 1280 * set.WorkArea.WidthPercent / 100
	if p.X != wantX || p.W != wantW {
		t.Fatalf("primary geometry x=%v w=%v, want x=%v w=%v", p.X, p.W, wantX, wantW)
	}
	if s.Y >= p.Y {
		t.Fatalf("secondary box should sit above the primary: primary y=%v secondary y=%v", p.Y, s.Y)
	}
	if p.Text != "hello there" {
		t.Fatalf("primary text = %q", p.Text)
	}
}

func TestPreReadingOpacity(t *testing.T) {
	doc := testDoc(t)
	snap := project(doc, 1.5) // "hello" spoken, "there" still ahead
	box := snap.Boxes[0]
	if len(box.Chars) != 10 {
		t.Fatalf("expected 10 chars, got %d", len(box.Chars))
	}
	for i, cs := range box.Chars[:5] {
		if cs.Opacity != 1 {
			t.Fatalf("spoken char %d opacity = %v, want 1", i, cs.Opacity)
		}
	}
	for i, cs := range box.Chars[5:] {
		if cs.Opacity != 0.4 {
			t.Fatalf("unspoken char %d opacity = %v, want pre-reading alpha 0.4", i, cs.Opacity)
		}
	}
}

func TestCharAdvancesLeftToRight(t *testing.T) {
	doc := testDoc(t)
	box := project(doc, 1.5).Boxes[0]
	for i := 1; i < len(box.Chars); i++ {
		if box.Chars[i].X <= box.Chars[i-1].X {
			t.Fatalf("char %d x=%v not right of char %d x=%v",
				i, box.Chars[i].X, i-1, box.Chars[i-1].X)
		}
	}
}

func TestElevationEffectLiftsNamedWords(t *testing.T) {
	doc := testDoc(t)
	doc.ElevationEffects = []timing.ElevationEffect{{
		EffectID: "fx1",
		EventID:  "e1",
		Start:    1.0,
		End:      2.0,
		WordMoves: []timing.WordMove{
			{WordIndex: 1, LiftPercent: 10, Scale: 1.3},
		},
	}}

	box := project(doc, 1.5).Boxes[0] // effect midpoint: full envelope
	wantLift := -720.0 * 10 / 100
	for _, cs := range box.Chars {
		if cs.WordIndex == 1 {
			if cs.TranslateY != wantLift {
				t.Fatalf("lifted char y=%v, want %v", cs.TranslateY, wantLift)
			}
			if cs.Scale != 1.3 {
				t.Fatalf("lifted char scale=%v, want 1.3", cs.Scale)
			}
		} else if cs.TranslateY != 0 || cs.Scale != 1 {
			t.Fatalf("untouched word moved: %+v", cs)
		}
	}
}

func TestProjectEmptyFrame(t *testing.T) {
	doc := testDoc(t)
	snap := project(doc, 20.0)
	if len(snap.Boxes) != 0 {
		t.Fatalf("nothing live at t=20, got %d boxes", len(snap.Boxes))
	}
	if snap.Time != 20.0 {
		t.Fatalf("snapshot time = %v", snap.Time)
	}
}
