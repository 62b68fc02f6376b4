// Package drag owns the pointer-driven selection state machine and the
// process-wide drag lock. One pointer device means at most one live drag
// across every session; the lock makes that ownership explicit and gives the
// host a single force-release hook for missed release events.
package drag

import "sync"

// Lock tracks which session currently owns an active drag. It is an
// injectable value rather than package state so tests can build independent
// instances; a process normally holds exactly one.
type Lock struct {
	mu      sync.Mutex
	owner   string
	release func()
}

// NewLock returns an unheld lock.
func NewLock() *Lock {
	return &Lock{}
}

// Acquire claims the lock for owner, first force-releasing any previous
// holder (last-writer-wins, never two live drags). release is invoked when
// the lock is taken away and must only reset the holder's own state.
func (l *Lock) Acquire(owner string, release func()) {
	l.mu.Lock()
	prev := l.release
	l.owner = owner
	l.release = release
	l.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// ForceRelease ends the current drag, whoever owns it. Releasing an unheld
// lock is a no-op, so the host can call this unconditionally from its
// release/cancel/blur safety net.
func (l *Lock) ForceRelease() {
	l.mu.Lock()
	rel := l.release
	l.owner = ""
	l.release = nil
	l.mu.Unlock()
	if rel != nil {
		rel()
	}
}

// Release drops the lock only if owner still holds it. Used for ordinary
// pointer-up so a session cannot release a drag it already lost.
func (l *Lock) Release(owner string) {
	l.mu.Lock()
	if l.owner != owner {
		l.mu.Unlock()
		return
	}
	rel := l.release
	l.owner = ""
	l.release = nil
	l.mu.Unlock()
	if rel != nil {
		rel()
	}
}

// Owner returns the id of the current holder, or "".
func (l *Lock) Owner() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.owner
}
