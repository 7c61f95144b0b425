package engagement

import (
	"math"
	"sync"
)

// ScrollMilestones are the depth percentages reported once per page view.
var ScrollMilestones = []int{25, 50, 75, 100}

// ScrollPercent converts scroll geometry into a depth percentage capped at
// 100. A non-positive document height counts as fully scrolled.
func ScrollPercent(scrollTop, viewport, document float64) int {
	if document <= 0 {
		return 100
	}
	pct := int(math.Round((scrollTop + viewport) / document * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// ScrollTracker keeps the deepest scroll seen and reports each milestone
// the first time it is crossed.
type ScrollTracker struct {
	mu    sync.Mutex
	max   int
	fired map[int]bool
}

// NewScrollTracker returns a tracker with no depth recorded.
func NewScrollTracker() *ScrollTracker {
	return &ScrollTracker{fired: make(map[int]bool)}
}

// Observe records pct and returns the milestones crossed for the first
// time, in ascending order. Depths at or below the current maximum are
// ignored.
func (t *ScrollTracker) Observe(pct int) []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pct > 100 {
		pct = 100
	}
	if pct <= t.max {
		return nil
	}
	t.max = pct

	var crossed []int
	for _, mark := range ScrollMilestones {
		if pct >= mark && !t.fired[mark] {
			t.fired[mark] = true
			crossed = append(crossed, mark)
		}
	}
	return crossed
}

// Max returns the deepest percentage observed.
func (t *ScrollTracker) Max() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.max
}

// Events turns newly crossed milestones into scroll_depth events built
// from base.
func (t *ScrollTracker) Events(base Event, pct int) []Event {
	crossed := t.Observe(pct)
	if len(crossed) == 0 {
		return nil
	}
	deepest := t.Max()
	events := make([]Event, 0, len(crossed))
	for _, mark := range crossed {
		ev := base
		ev.Type = KindScrollDepth
		ev.Props = map[string]any{"pct": mark, "maxPct": deepest}
		events = append(events, ev)
	}
	return events
}
