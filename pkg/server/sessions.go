package server

import (
	"slices"

	"github.com/bastiangx/hintserve/pkg/engine"
	"github.com/google/uuid"
)

// sessionStore holds hint sets by id, evicting the oldest once full.
// It is only touched from the request loop.
type sessionStore struct {
	max   int
	byID  map[string]*engine.Result
	order []string
}

func newSessionStore(max int) *sessionStore {
	if max < 1 {
		max = 1
	}
	return &sessionStore{
		max:  max,
		byID: make(map[string]*engine.Result, max),
	}
}

// add stores result under a new id and returns the id of any evicted session.
func (s *sessionStore) add(result *engine.Result) (id, evicted string) {
	if len(s.order) >= s.max {
		evicted = s.order[0]
		s.order = s.order[1:]
		delete(s.byID, evicted)
	}
	id = uuid.NewString()
	s.byID[id] = result
	s.order = append(s.order, id)
	return id, evicted
}

func (s *sessionStore) get(id string) (*engine.Result, bool) {
	r, ok := s.byID[id]
	return r, ok
}

func (s *sessionStore) drop(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return true
}

func (s *sessionStore) len() int {
	return len(s.byID)
}
