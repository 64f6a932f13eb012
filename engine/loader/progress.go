package loader

import (
	"io"
	"math"
	"sync"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
)

// tracker is the implementation of the Tracker interface.
type tracker struct {
	mu     sync.Mutex
	sink   diagnostics.Sink
	loaded int
	total  int
}

// Tracker aggregates progress across every file fetched by a loader, including external
// buffers. A file counts toward loaded once it finishes, whether it succeeded or not.
type Tracker interface {
	// ItemStart registers a file that is about to be fetched.
	ItemStart(source string)

	// ItemEnd marks a file as finished and records the aggregate percentage.
	ItemEnd(source string)

	// ItemError records that a file failed. ItemEnd is still expected.
	ItemError(source string)

	// Snapshot returns the finished and total file counts.
	//
	// Returns:
	//   - loaded: files finished so far
	//   - total: files registered so far
	Snapshot() (loaded, total int)

	// Fraction returns loaded/total in [0, 1], or 0 before any file is registered.
	Fraction() float64
}

var _ Tracker = &tracker{}

// NewTracker creates a Tracker that records progress lines into sink.
//
// Parameters:
//   - sink: destination for progress diagnostics, may be nil
//
// Returns:
//   - Tracker: the new tracker
func NewTracker(sink diagnostics.Sink) Tracker {
	if sink == nil {
		sink = diagnostics.NewSink()
	}
	return &tracker{sink: sink}
}

func (t *tracker) ItemStart(string) {
	t.mu.Lock()
	t.total++
	t.mu.Unlock()
}

func (t *tracker) ItemEnd(string) {
	t.mu.Lock()
	t.loaded++
	pct := float64(t.loaded) / float64(t.total) * 100
	t.mu.Unlock()
	t.sink.Recordf("Loading progress: %.1f%%", pct)
}

func (t *tracker) ItemError(source string) {
	t.sink.Recordf("Error loading: %s", source)
}

func (t *tracker) Snapshot() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded, t.total
}

func (t *tracker) Fraction() float64 {
	loaded, total := t.Snapshot()
	if total == 0 {
		return 0
	}
	return float64(loaded) / float64(total)
}

// progressFunc receives the bytes read so far and the expected total (<= 0 when unknown).
type progressFunc func(read, total int64)

// progressReader reports cumulative reads to fn.
type progressReader struct {
	r     io.Reader
	read  int64
	total int64
	fn    progressFunc
}

func newProgressReader(r io.Reader, total int64, fn progressFunc) io.Reader {
	if fn == nil {
		return r
	}
	fn(0, total)
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.fn(p.read, p.total)
	}
	return n, err
}

// checkpointReporter returns a progressFunc that calls report once per 25% checkpoint
// (0, 25, 50, 75, 100) when the total size is known.
func checkpointReporter(report func(pct float64)) progressFunc {
	last := -1
	return func(read, total int64) {
		if total <= 0 {
			return
		}
		pct := float64(read) / float64(total) * 100
		if math.Mod(pct, 25) >= 1 {
			return
		}
		bucket := int(pct / 25)
		if bucket == last {
			return
		}
		last = bucket
		report(pct)
	}
}
