package session

import (
	"errors"
	"fmt"

	"github.com/Tege1337/chess2.0/internal/engine"
)

var (
	ErrSessionExists  = errors.New("session already exists")
	ErrSamePlayer     = errors.New("session needs two distinct connections")
	ErrSessionMissing = errors.New("session not found")
)

// Registry exclusively owns every live Session.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create inserts a new session. white and black must differ and id must be
// unused.
func (r *Registry) Create(id, white, black string, pos engine.Position) (*Session, error) {
	if white == black {
		return nil, ErrSamePlayer
	}
	if _, exists := r.sessions[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, id)
	}
	s := &Session{ID: id, White: white, Black: black, Position: pos}
	r.sessions[id] = s
	return s, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Has(id string) bool {
	_, ok := r.sessions[id]
	return ok
}

// Delete retires a session and returns it so callers can notify its seats.
func (r *Registry) Delete(id string) (*Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionMissing, id)
	}
	delete(r.sessions, id)
	return s, nil
}

func (r *Registry) Count() int { return len(r.sessions) }

// All returns the live sessions in no particular order.
func (r *Registry) All() []*Session {
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
