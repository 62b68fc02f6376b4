package session

import (
	"log"

	"github.com/example/cropgate/internal/drag"
)

// Key identifies a session by its request/target pair.
type Key struct {
	PromptID string
	NodeID   string
}

// Request is the validated payload of an inbound crop request, minus the
// transport-specific image reference (the host fetches the preview and
// attaches it separately).
type Request struct {
	PromptID           string
	NodeID             string
	Width              int
	Height             int
	ForceOriginalRatio bool
}

// Manager owns every live session, keyed by (prompt, node). Sessions are
// explicit records created here and dropped here; state is never hung off
// host-owned objects. The most recently created session is the current one
// and receives pointer input.
type Manager struct {
	lock      *drag.Lock
	submitter Submitter
	sessions  map[Key]*Session
	current   Key
}

// NewManager creates an empty manager sharing one drag lock across all of
// its sessions.
func NewManager(lock *drag.Lock, submitter Submitter) *Manager {
	return &Manager{
		lock:      lock,
		submitter: submitter,
		sessions:  map[Key]*Session{},
	}
}

// Handle creates a session for req and makes it current. Requests missing
// required fields are dropped and return nil. A repeated (prompt, node) pair
// replaces the previous session, drag and all.
func (m *Manager) Handle(req Request) *Session {
	if req.PromptID == "" || req.NodeID == "" || req.Width <= 0 || req.Height <= 0 {
		log.Printf("drop malformed crop request %+v", req)
		return nil
	}
	key := Key{PromptID: req.PromptID, NodeID: req.NodeID}
	if old := m.sessions[key]; old != nil {
		old.drag.ClearRect()
	}
	s := New(req.PromptID, req.NodeID, req.Width, req.Height, req.ForceOriginalRatio,
		m.lock, m.submitter, func() bool { return m.current == key })
	m.sessions[key] = s
	m.current = key
	return s
}

// Current returns the session receiving input, or nil.
func (m *Manager) Current() *Session {
	return m.sessions[m.current]
}

// Drop removes a session and force-ends its drag if it held one.
func (m *Manager) Drop(key Key) {
	if s := m.sessions[key]; s != nil {
		s.drag.ClearRect()
		delete(m.sessions, key)
	}
	if m.current == key {
		m.current = Key{}
	}
}

// ForceRelease unconditionally ends whatever drag is live. Wired to the
// host's release/cancel/blur safety net; a no-op when nothing is dragging.
func (m *Manager) ForceRelease() {
	m.lock.ForceRelease()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int { return len(m.sessions) }
