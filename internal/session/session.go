// Package session holds the short-lived state of interactive paginated
// views. Each session is a tiny state machine: Active until completed by its
// owner or expired by a single inactivity timer. Expiry only disables
// further navigation; committed ledger state is never touched.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	StateActive    = "active"
	StateCompleted = "completed"
	StateExpired   = "expired"
)

// DefaultTTL matches the five minute collector window of the chat flows.
const DefaultTTL = 5 * time.Minute

// terminalGrace is how long a completed or expired view stays readable
// before it is dropped from the manager.
const terminalGrace = time.Minute

var (
	ErrNotFound = errors.New("session not found")
	ErrInactive = errors.New("session no longer active")
)

// View is one live paginated view. Filter and Role describe what was listed
// so navigation re-renders the same query; Page is the last shown page.
type View struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"ownerId"`
	Kind    string    `json:"kind"` // e.g. "payments", "user-payments"
	Filter  string    `json:"filter,omitempty"`
	Role    string    `json:"role,omitempty"`
	PerPage int       `json:"perPage"`
	Page    int       `json:"page"`
	State   string    `json:"state"`
	Expires time.Time `json:"expires"`
}

type Manager struct {
	mu    sync.Mutex
	views map[string]*View
	ttl   time.Duration
	grace time.Duration
	now   func() time.Time
	// timers are kept so Complete can stop the pending expiry
	timers map[string]*time.Timer
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		views:  make(map[string]*View),
		timers: make(map[string]*time.Timer),
		ttl:    ttl,
		grace:  terminalGrace,
		now:    time.Now,
	}
}

// Open starts a view in the Active state with a fresh correlation id and
// arms its expiry timer.
func (m *Manager) Open(v View) *View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v.ID = uuid.NewString()
	v.State = StateActive
	v.Expires = m.now().Add(m.ttl)

	stored := v
	m.views[stored.ID] = &stored
	m.timers[stored.ID] = time.AfterFunc(m.ttl, func() { m.expire(stored.ID) })
	return &v
}

// Navigate records the page the owner moved to. Only active sessions owned
// by the caller can navigate.
func (m *Manager) Navigate(id, ownerID string, page int) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.views[id]
	if !ok || v.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	if v.State != StateActive {
		return nil, ErrInactive
	}
	v.Page = page
	out := *v
	return &out, nil
}

// Complete transitions an active view to Completed and stops its timer.
func (m *Manager) Complete(id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.views[id]
	if !ok || v.OwnerID != ownerID {
		return ErrNotFound
	}
	if v.State != StateActive {
		return ErrInactive
	}
	v.State = StateCompleted
	if t := m.timers[id]; t != nil {
		t.Stop()
	}
	m.timers[id] = time.AfterFunc(m.grace, func() { m.remove(id) })
	return nil
}

// Get returns a copy of the view regardless of state.
func (m *Manager) Get(id string) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.views[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *v
	return &out, nil
}

func (m *Manager) expire(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.views[id]
	if !ok || v.State != StateActive {
		return
	}
	v.State = StateExpired
	m.timers[id] = time.AfterFunc(m.grace, func() { m.remove(id) })
}

// remove drops a terminal view once its grace period is over, keeping the
// manager's maps from growing for the process lifetime.
func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.views[id]; !ok || v.State == StateActive {
		return
	}
	delete(m.views, id)
	delete(m.timers, id)
}
