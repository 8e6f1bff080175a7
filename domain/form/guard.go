package form

import "sync/atomic"

// Guard is the authoritative re-entrancy lock for a form's submit path.
// At most one holder exists at a time; after Close no new holder is admitted and
// callers holding the token must discard their results.
type Guard struct {
	submitting atomic.Bool
	closed     atomic.Bool
}

// Release returns the submission token.
func (g *Guard) Release() {
	g.submitting.Store(false)
}

// Close marks the owning form as torn down.
func (g *Guard) Close() {
	g.closed.Store(true)
}

// Closed reports whether Close has been called.
func (g *Guard) Closed() bool {
	return g.closed.Load()
}

// Submitting reports whether the token is currently held.
func (g *Guard) Submitting() bool {
	return g.submitting.Load()
}

// Acquire claims the token or explains why it could not.
func (g *Guard) Acquire() error {
	if g.closed.Load() {
		return ErrFormClosed
	}
	if !g.submitting.CompareAndSwap(false, true) {
		return ErrSubmissionInProgress
	}
	return nil
}
