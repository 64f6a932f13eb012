package diagnostics

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPanel struct {
	shown [][]Event
}

func (p *recordingPanel) Show(events []Event) {
	p.shown = append(p.shown, events)
}

func TestSinkKeepsMostRecentTen(t *testing.T) {
	s := NewSink()
	for i := 0; i < 25; i++ {
		s.Recordf("msg %d", i)
		if s.Len() > DefaultCapacity {
			t.Fatalf("sink holds %d messages after %d records", s.Len(), i+1)
		}
	}

	got := s.Messages()
	if len(got) != DefaultCapacity {
		t.Fatalf("expected %d messages, got %d", DefaultCapacity, len(got))
	}
	for i, msg := range got {
		want := fmt.Sprintf("msg %d", 15+i)
		if msg != want {
			t.Errorf("message %d = %q, want %q", i, msg, want)
		}
	}
}

func TestSinkBelowCapacityKeepsAll(t *testing.T) {
	s := NewSink()
	s.Record("a")
	s.Record("b")

	got := s.Messages()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected messages: %v", got)
	}
}

func TestSinkSequenceIsMonotonic(t *testing.T) {
	s := NewSink(WithCapacity(3))
	for i := 0; i < 7; i++ {
		s.Record("x")
	}
	events := s.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Seq != uint64(5+i) {
			t.Errorf("event %d seq = %d, want %d", i, ev.Seq, 5+i)
		}
	}
}

func TestSinkMirrorsToPanelAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	panel := &recordingPanel{}
	s := NewSink(WithLogger(zap.New(core)), WithPanel(panel))

	s.Record("Scene setup complete")

	if logs.Len() != 1 || logs.All()[0].Message != "Scene setup complete" {
		t.Fatalf("expected message mirrored to logger, got %v", logs.All())
	}
	if len(panel.shown) != 1 {
		t.Fatalf("expected one panel update, got %d", len(panel.shown))
	}
	last := panel.shown[0]
	if last[len(last)-1].Message != "Scene setup complete" {
		t.Errorf("panel newest entry = %q", last[len(last)-1].Message)
	}
}

func TestAttachPanelShowsCurrentContents(t *testing.T) {
	s := NewSink()
	s.Record("before")

	panel := &recordingPanel{}
	s.AttachPanel(panel)
	if len(panel.shown) != 1 || len(panel.shown[0]) != 1 || panel.shown[0][0].Message != "before" {
		t.Fatalf("panel not primed with current contents: %v", panel.shown)
	}

	s.Record("after")
	if len(panel.shown) != 2 {
		t.Fatalf("expected two panel updates, got %d", len(panel.shown))
	}
}

func TestSinkConcurrentRecord(t *testing.T) {
	s := NewSink()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Recordf("worker %d msg %d", w, i)
			}
		}(w)
	}
	wg.Wait()

	events := s.Events()
	if len(events) != DefaultCapacity {
		t.Fatalf("expected %d events, got %d", DefaultCapacity, len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq != events[i-1].Seq+1 {
			t.Fatalf("events out of order: %d then %d", events[i-1].Seq, events[i].Seq)
		}
	}
	if events[len(events)-1].Seq != 400 {
		t.Errorf("newest seq = %d, want 400", events[len(events)-1].Seq)
	}
}
