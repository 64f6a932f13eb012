package loader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
)

func TestCheckpointReporterCoarseSteps(t *testing.T) {
	var got []float64
	report := checkpointReporter(func(pct float64) { got = append(got, pct) })

	for _, read := range []int64{0, 10, 250, 251, 300, 500, 600, 750, 999, 1000} {
		report(read, 1000)
	}

	want := []float64{0, 25, 50, 75, 100}
	if len(got) != len(want) {
		t.Fatalf("checkpoints = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("checkpoints = %v, want %v", got, want)
		}
	}
}

func TestCheckpointReporterUnknownTotal(t *testing.T) {
	called := false
	report := checkpointReporter(func(float64) { called = true })
	report(100, -1)
	report(100, 0)
	if called {
		t.Fatal("no checkpoints expected without a known total")
	}
}

func TestProgressReaderReportsCumulativeBytes(t *testing.T) {
	var reads []int64
	r := newProgressReader(strings.NewReader("abcdefgh"), 8, func(read, _ int64) { reads = append(reads, read) })

	buf := make([]byte, 3)
	for {
		if _, err := r.Read(buf); err != nil {
			break
		}
	}
	if reads[0] != 0 || reads[len(reads)-1] != 8 {
		t.Fatalf("reported reads = %v", reads)
	}
}

func TestTrackerAggregate(t *testing.T) {
	sink := diagnostics.NewSink()
	tr := NewTracker(sink)
	if tr.Fraction() != 0 {
		t.Fatal("fraction before any item should be 0")
	}

	tr.ItemStart("a")
	tr.ItemStart("b")
	tr.ItemEnd("a")
	if tr.Fraction() != 0.5 {
		t.Fatalf("fraction = %f, want 0.5", tr.Fraction())
	}
	tr.ItemError("b")
	tr.ItemEnd("b")

	loaded, total := tr.Snapshot()
	if loaded != 2 || total != 2 {
		t.Fatalf("snapshot = %d/%d", loaded, total)
	}
	want := []string{"Loading progress: 50.0%", "Error loading: b", "Loading progress: 100.0%"}
	got := sink.Messages()
	if len(got) != len(want) {
		t.Fatalf("messages = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("messages = %v, want %v", got, want)
		}
	}
}

func TestResolveRef(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"models/tri.gltf", "tri.bin", "models/tri.bin"},
		{"tri.gltf", "buffers/tri%20a.bin", "buffers/tri a.bin"},
		{"https://example.com/Duck/glTF/Duck.gltf", "Duck0.bin", "https://example.com/Duck/glTF/Duck0.bin"},
		{"models/tri.gltf", "https://cdn.example.com/x.bin", "https://cdn.example.com/x.bin"},
	}
	for _, tt := range tests {
		got, err := resolveRef(tt.base, tt.ref)
		if err != nil {
			t.Fatalf("resolveRef(%q, %q): %v", tt.base, tt.ref, err)
		}
		if got != tt.want {
			t.Errorf("resolveRef(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
