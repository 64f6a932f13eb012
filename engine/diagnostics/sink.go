package diagnostics

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultCapacity is the number of messages a Sink retains before evicting the oldest.
const DefaultCapacity = 10

// Event is a single diagnostic message. Seq increases monotonically with insertion order.
type Event struct {
	Seq     uint64
	Message string
}

// Panel is a UI collection that mirrors the sink's contents.
// Show receives the retained messages oldest first; implementations display the newest entry.
type Panel interface {
	Show(events []Event)
}

// sink is the implementation of the Sink interface.
type sink struct {
	mu sync.Mutex

	logger *zap.Logger
	panels []Panel

	// ring holds up to capacity events; head is the index of the oldest.
	ring     []Event
	head     int
	size     int
	capacity int
	seq      uint64
}

// Sink is an append-only bounded log of human-readable status messages.
// Every recorded message is mirrored to the structured logger and to each attached Panel.
// Safe for concurrent use.
type Sink interface {
	// Record appends a message, evicting the oldest one when the sink is full.
	//
	// Parameters:
	//   - message: the human-readable status line
	Record(message string)

	// Recordf formats and records a message.
	//
	// Parameters:
	//   - format: fmt-style format string
	//   - args: format arguments
	Recordf(format string, args ...any)

	// Events returns a snapshot of the retained events, oldest first.
	//
	// Returns:
	//   - []Event: the retained events in insertion order
	Events() []Event

	// Messages returns a snapshot of the retained message strings, oldest first.
	//
	// Returns:
	//   - []string: the retained messages in insertion order
	Messages() []string

	// Len returns the number of retained messages.
	Len() int

	// Capacity returns the maximum number of retained messages.
	Capacity() int

	// AttachPanel adds a Panel that mirrors the sink from now on.
	// The panel is immediately shown the current contents.
	//
	// Parameters:
	//   - p: the Panel to attach
	AttachPanel(p Panel)
}

var _ Sink = &sink{}

// NewSink creates a Sink with DefaultCapacity and the provided options applied.
//
// Parameters:
//   - options: functional options for the sink
//
// Returns:
//   - Sink: the new sink
func NewSink(options ...SinkBuilderOption) Sink {
	s := &sink{
		logger:   zap.NewNop(),
		capacity: DefaultCapacity,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.capacity <= 0 {
		s.capacity = DefaultCapacity
	}
	s.ring = make([]Event, s.capacity)
	return s
}

func (s *sink) Record(message string) {
	s.logger.Info(message)

	s.mu.Lock()
	s.seq++
	ev := Event{Seq: s.seq, Message: message}
	if s.size < s.capacity {
		s.ring[(s.head+s.size)%s.capacity] = ev
		s.size++
	} else {
		s.ring[s.head] = ev
		s.head = (s.head + 1) % s.capacity
	}
	snapshot := s.snapshotLocked()
	panels := make([]Panel, len(s.panels))
	copy(panels, s.panels)
	s.mu.Unlock()

	for _, p := range panels {
		p.Show(snapshot)
	}
}

func (s *sink) Recordf(format string, args ...any) {
	s.Record(fmt.Sprintf(format, args...))
}

func (s *sink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *sink) Messages() []string {
	events := s.Events()
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Message
	}
	return out
}

func (s *sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *sink) Capacity() int {
	return s.capacity
}

func (s *sink) AttachPanel(p Panel) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.panels = append(s.panels, p)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	p.Show(snapshot)
}

// snapshotLocked copies the ring into a fresh slice, oldest first. Caller must hold mu.
func (s *sink) snapshotLocked() []Event {
	out := make([]Event, s.size)
	for i := 0; i < s.size; i++ {
		out[i] = s.ring[(s.head+i)%s.capacity]
	}
	return out
}
