package registration

import (
	"context"
	"log"
	"sync"

	"github.com/example/project-forms/domain/user"
)

// SessionStarter hands a new session to the session collaborator.
type SessionStarter interface {
	Login(ctx context.Context, s user.Session) (string, error)
}

// Navigator moves the client owning a form to another route.
type Navigator interface {
	Navigate(ctx context.Context, formID, route string)
}

// Result is what a successful submission yields to the caller.
type Result struct {
	Outcome
	SessionID string
}

// Controller drives the side effects of a successful registration:
// the session is handed over once and navigation happens once.
type Controller struct {
	sessions SessionStarter
	nav      Navigator
}

// NewController creates a new Controller.
func NewController(sessions SessionStarter, nav Navigator) *Controller {
	return &Controller{
		sessions: sessions,
		nav:      nav,
	}
}

// Submit submits f and, on success, logs the user in and navigates.
// A session that cannot be recorded is logged and the user is still navigated.
func (c *Controller) Submit(ctx context.Context, f *Form) (Result, error) {
	outcome, err := f.Submit(ctx)
	if err != nil {
		return Result{}, err
	}

	sessionID, err := c.sessions.Login(ctx, outcome.Session)
	if err != nil {
		log.Printf("[registration] Warning: failed to record session for user %s: %v", outcome.Session.UserID, err)
	}

	c.nav.Navigate(ctx, f.State().ID, outcome.Redirect)

	return Result{Outcome: outcome, SessionID: sessionID}, nil
}

// redirectBoard is the Navigator of the module. It records the route each
// form's client should follow; clients read it from the form snapshot.
type redirectBoard struct {
	mu     sync.RWMutex
	routes map[string]string
}

func newRedirectBoard() *redirectBoard {
	return &redirectBoard{routes: make(map[string]string)}
}

// Navigate records route for formID.
func (b *redirectBoard) Navigate(_ context.Context, formID, route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[formID] = route
	log.Printf("[registration] Form %s navigates to %s", formID, route)
}

// Route returns the recorded route for formID, if any.
func (b *redirectBoard) Route(formID string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.routes[formID]
}

// Forget drops the route of a closed form.
func (b *redirectBoard) Forget(formID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.routes, formID)
}
