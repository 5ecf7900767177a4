package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teamKimtaerin/ecg-player/timing"
)

func TestFromFile(t *testing.T) {
	doc, err := FromFile("testdata/sample.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version != "1.0" || len(doc.SyncEvents) != 2 {
		t.Fatalf("unexpected document: version=%q events=%d", doc.Version, len(doc.SyncEvents))
	}

	// normalization already happened: animations resolved, colors rewritten
	w := &doc.SyncEvents[0].Words[0]
	if w.Resolved.Kind != timing.AnimBouncing || w.Resolved.MaxHeightPercent != 5 {
		t.Fatalf("unified animation not resolved: %+v", w.Resolved)
	}
	if w.ColorTransition.ToColor != "#FFD700" {
		t.Fatalf("to_color not rewritten: %q", w.ColorTransition.ToColor)
	}
	if legacy := &doc.SyncEvents[0].Words[3]; legacy.Resolved.Kind != timing.AnimBouncing {
		t.Fatalf("legacy bouncing bundle not resolved: %+v", legacy.Resolved)
	}
	if doc.SyncEvents[1].PreReading.Alpha != 0.4 {
		t.Fatalf("pre-reading alpha default not applied: %v", doc.SyncEvents[1].PreReading.Alpha)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile("testdata/nope.json"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"sync_events": [`)); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestParseRejectsInvalidDocument(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"duplicate event id", `{"sync_events":[
			{"event_id":"e1","pre_reading":{"start":0,"end":1},"words":[]},
			{"event_id":"e1","pre_reading":{"start":0,"end":1},"words":[]}]}`},
		{"inverted pre-reading", `{"sync_events":[
			{"event_id":"e1","pre_reading":{"start":2,"end":1},"words":[]}]}`},
		{"bad color", `{"sync_events":[
			{"event_id":"e1","pre_reading":{"start":0,"end":1},"words":[
			{"word":"x","word_index":0,"start":0,"end":1,
			 "color_transition":{"from_color":"red","to_color":"&H00FFFFFF","duration_ms":100}}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.body)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestFromURL(t *testing.T) {
	body := `{"version":"1.0","sync_events":[
		{"event_id":"e1","pre_reading":{"start":0,"end":1},"words":[]}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	doc, err := FromURL(context.Background(), srv.URL, time.Second, DefaultMaxBytes)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.SyncEvents) != 1 {
		t.Fatalf("got %d events", len(doc.SyncEvents))
	}
}

func TestFromURLStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL, time.Second, DefaultMaxBytes)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected a status error, got %v", err)
	}
}

func TestFromURLTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL, time.Second, 1024)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}
