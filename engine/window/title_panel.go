package window

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/penguin-paradise/engine/diagnostics"
)

// TitlePanel mirrors the diagnostic sink into the title bar: the base title, the loading
// progress while models load, and the newest message. Show may be called from any
// goroutine; Apply pushes the composed title to the window and must run on the window thread.
type TitlePanel struct {
	mu sync.Mutex

	base     string
	latest   string
	progress float64
	loading  bool
	dirty    bool
}

var _ diagnostics.Panel = &TitlePanel{}

// NewTitlePanel creates a TitlePanel in the loading state.
//
// Parameters:
//   - base: the fixed title prefix
//
// Returns:
//   - *TitlePanel: the panel
func NewTitlePanel(base string) *TitlePanel {
	return &TitlePanel{base: base, loading: true, dirty: true}
}

// Show records the newest event.
func (p *TitlePanel) Show(events []diagnostics.Event) {
	if len(events) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest = events[len(events)-1].Message
	p.dirty = true
}

// SetProgress updates the loading indicator.
//
// Parameters:
//   - fraction: loaded share in [0, 1]
func (p *TitlePanel) SetProgress(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fraction != p.progress {
		p.progress = fraction
		p.dirty = true
	}
}

// Done hides the loading indicator.
func (p *TitlePanel) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading {
		p.loading = false
		p.dirty = true
	}
}

// Loading reports whether the loading indicator is shown.
func (p *TitlePanel) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Title returns the composed title.
func (p *TitlePanel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.compose()
}

func (p *TitlePanel) compose() string {
	title := p.base
	if p.loading {
		title = fmt.Sprintf("%s [loading %.0f%%]", title, p.progress*100)
	}
	if p.latest != "" {
		title += " - " + p.latest
	}
	return title
}

// Apply sets the window title if it changed since the last Apply.
//
// Parameters:
//   - w: the window to update
//
// Returns:
//   - bool: true if the title was pushed
func (p *TitlePanel) Apply(w Window) bool {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return false
	}
	p.dirty = false
	title := p.compose()
	p.mu.Unlock()

	w.SetTitle(title)
	return true
}
