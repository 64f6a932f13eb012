package profiler

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(zap.New(core)),
		WithInterval(time.Second),
		WithClock(func() time.Time { return now }),
	)

	for i := 0; i < 49; i++ {
		now = now.Add(20 * time.Millisecond)
		if p.Tick() {
			t.Fatalf("tick %d logged before the interval elapsed", i)
		}
	}
	now = now.Add(20 * time.Millisecond)
	if !p.Tick() {
		t.Fatal("expected a sample after one second")
	}
	if fps := p.Last().FPS; fps < 49.9 || fps > 50.1 {
		t.Errorf("fps = %f, want 50", fps)
	}
	if logs.FilterMessage("frame stats").Len() != 1 {
		t.Errorf("logged %d samples", logs.Len())
	}
}
