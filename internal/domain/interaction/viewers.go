package interaction

import (
	"sync"
	"time"
)

// DefaultMaxViewers bounds a Viewers registry created with capacity <= 0.
const DefaultMaxViewers = 10000

// Viewers keeps one State per viewer. When full, the viewer seen least
// recently is dropped to make room.
type Viewers struct {
	mu     sync.Mutex
	states map[string]*viewer
	limit  int
	now    func() time.Time
}

type viewer struct {
	state *State
	seen  time.Time
}

// NewViewers creates a registry holding at most capacity viewers.
func NewViewers(capacity int) *Viewers {
	if capacity <= 0 {
		capacity = DefaultMaxViewers
	}
	return &Viewers{states: make(map[string]*viewer), limit: capacity, now: time.Now}
}

// State returns the viewer's state, creating it on first use.
func (v *Viewers) State(viewerID string) *State {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if e, ok := v.states[viewerID]; ok {
		e.seen = now
		return e.state
	}
	if len(v.states) >= v.limit {
		v.evictOldest()
	}
	e := &viewer{state: NewState(), seen: now}
	v.states[viewerID] = e
	return e.state
}

// Len reports how many viewers are held.
func (v *Viewers) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.states)
}

func (v *Viewers) evictOldest() {
	var (
		oldestID string
		oldest   *viewer
	)
	for id, e := range v.states {
		if oldest == nil || e.seen.Before(oldest.seen) {
			oldestID, oldest = id, e
		}
	}
	delete(v.states, oldestID)
}
