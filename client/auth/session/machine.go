package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/detect/internal/collection"
)

// Machine represents session state machine.
//
// Every transition accepts an optional commit func that runs while the
// machine lock is held, so a state change and the matching credential store
// update are observed together.
type Machine struct {
	mu        sync.Mutex
	state     State
	observers *collection.SyncMap[string, chan State]
	logger    zerolog.Logger
}

// Option customizes Machine
type Option func(m *Machine)

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// State returns current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Login moves the session to Authenticated.
func (m *Machine) Login(commit func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run(commit)
	m.transition(Authenticated, "login")
}

// BeginRefresh moves the session to RefreshInFlight unless a refresh is
// already outstanding. It returns true when the caller became the owner.
func (m *Machine) BeginRefresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == RefreshInFlight {
		return false
	}
	m.transition(RefreshInFlight, "refresh started")
	return true
}

// EndRefresh completes the outstanding refresh: Authenticated when ok,
// Anonymous otherwise. It returns false, without running commit, when no
// refresh is outstanding anymore, e.g. because of a logout in the meantime.
func (m *Machine) EndRefresh(ok bool, commit func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != RefreshInFlight {
		return false
	}
	run(commit)
	if ok {
		m.transition(Authenticated, "refresh succeeded")
	} else {
		m.transition(Anonymous, "refresh failed")
	}
	return true
}

// Logout moves the session to Anonymous from any state. It returns false
// when the session was already Anonymous; commit runs in both cases.
func (m *Machine) Logout(commit func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	run(commit)
	if m.state == Anonymous {
		return false
	}
	m.transition(Anonymous, "logout")
	return true
}

// Subscribe returns a channel receiving the current state followed by every
// later transition. The channel only buffers the latest state, so a slow
// observer skips intermediate states but never blocks the machine. Call
// cancel to stop receiving.
func (m *Machine) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	id := uuid.NewString()
	m.mu.Lock()
	ch <- m.state
	m.observers.Put(id, ch)
	m.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.observers.Delete(id); ok {
				close(ch)
			}
		})
	}
}

func (m *Machine) transition(next State, reason string) {
	prev := m.state
	m.state = next
	if prev == next {
		return
	}
	m.logger.Debug().Str("from", prev.String()).Str("to", next.String()).Str("reason", reason).Msg("session transition")
	m.observers.Range(func(_ string, ch chan State) bool {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next:
		default:
		}
		return true
	})
}

func run(commit func()) {
	if commit != nil {
		commit()
	}
}

// New creates a machine in the initial state
func New(initial State, options ...Option) *Machine {
	ret := &Machine{
		state:     initial,
		observers: collection.NewSyncMap[string, chan State](),
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
