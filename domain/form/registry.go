package form

import (
	"fmt"
	"sync"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

// formIDLength gives IDs with the collision resistance of a UUID.
const formIDLength = 21

type entry[F any] struct {
	form    F
	touched time.Time
}

// Registry holds the open instances of one kind of form, keyed by a random ID.
// Every Open and Get marks the form as used; Sweep evicts forms left unused.
type Registry[F any] struct {
	mu    sync.Mutex
	forms map[string]*entry[F]
	newID func() string
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry[F any]() (*Registry[F], error) {
	gen, err := nanoid.Standard(formIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create form id generator: %w", err)
	}
	return &Registry[F]{
		forms: make(map[string]*entry[F]),
		newID: gen,
		now:   time.Now,
	}, nil
}

// Open creates a form with a fresh ID and stores it.
func (r *Registry[F]) Open(create func(id string) F) (string, F) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for _, taken := r.forms[id]; taken; _, taken = r.forms[id] {
		id = r.newID()
	}
	f := create(id)
	r.forms[id] = &entry[F]{form: f, touched: r.now()}
	return id, f
}

// Get returns the open form with id.
func (r *Registry[F]) Get(id string) (F, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.forms[id]
	if !ok {
		var zero F
		return zero, ErrFormNotFound
	}
	e.touched = r.now()
	return e.form, nil
}

// Remove takes the form with id out of the registry and returns it.
func (r *Registry[F]) Remove(id string) (F, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.forms[id]
	if !ok {
		var zero F
		return zero, ErrFormNotFound
	}
	delete(r.forms, id)
	return e.form, nil
}

// Len returns the number of open forms.
func (r *Registry[F]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Drain removes and returns every open form.
func (r *Registry[F]) Drain() []F {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]F, 0, len(r.forms))
	for id, e := range r.forms {
		out = append(out, e.form)
		delete(r.forms, id)
	}
	return out
}

// Sweep removes and returns the forms not used for longer than maxAge, keyed by ID.
func (r *Registry[F]) Sweep(maxAge time.Duration) map[string]F {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxAge)
	evicted := make(map[string]F)
	for id, e := range r.forms {
		if e.touched.Before(cutoff) {
			evicted[id] = e.form
			delete(r.forms, id)
		}
	}
	return evicted
}
