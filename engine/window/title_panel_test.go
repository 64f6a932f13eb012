package window

import (
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
)

type fakeWindow struct {
	Window
	titles []string
}

func (f *fakeWindow) SetTitle(title string) {
	f.titles = append(f.titles, title)
}

func TestTitlePanelComposesProgressAndNewest(t *testing.T) {
	p := NewTitlePanel("Penguins")
	p.SetProgress(0.5)
	p.Show([]diagnostics.Event{{Seq: 1, Message: "old"}, {Seq: 2, Message: "newest"}})

	if got, want := p.Title(), "Penguins [loading 50%] - newest"; got != want {
		t.Fatalf("title = %q, want %q", got, want)
	}

	p.Done()
	if got, want := p.Title(), "Penguins - newest"; got != want {
		t.Fatalf("title after done = %q, want %q", got, want)
	}
	if p.Loading() {
		t.Fatal("panel should not be loading after Done")
	}
}

func TestTitlePanelApplyOnlyWhenChanged(t *testing.T) {
	w := &fakeWindow{}
	p := NewTitlePanel("P")

	if !p.Apply(w) || p.Apply(w) {
		t.Fatal("expected exactly one push for the initial title")
	}
	p.Show(nil)
	if p.Apply(w) {
		t.Fatal("empty Show should not change the title")
	}
	p.Show([]diagnostics.Event{{Message: "hi"}})
	p.Apply(w)
	if len(w.titles) != 2 || w.titles[1] != "P [loading 0%] - hi" {
		t.Fatalf("titles = %q", w.titles)
	}
}

func TestTitlePanelMirrorsSink(t *testing.T) {
	p := NewTitlePanel("P")
	sink := diagnostics.NewSink(diagnostics.WithPanel(p))
	sink.Record("Window resized")
	p.Done()
	if got := p.Title(); got != "P - Window resized" {
		t.Fatalf("title = %q", got)
	}
}
