// Package session holds the signed in user id for the lifetime of the app.
package session

import "sync"

// Change is delivered to subscribers whenever the value changes.
type Change struct {
	UserID   string
	SignedIn bool
}

// Store is a single slot: either a user id or none.
type Store struct {
	mu     sync.RWMutex
	userID string
	set    bool
	subs   map[int]chan Change
	nextID int
}

func NewStore() *Store {
	return &Store{subs: map[int]chan Change{}}
}

func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.set
}

// Set stores id. An empty id clears the slot.
func (s *Store) Set(id string) {
	s.update(id, id != "")
}

func (s *Store) Clear() {
	s.update("", false)
}

func (s *Store) update(id string, set bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == id && s.set == set {
		return
	}
	s.userID, s.set = id, set

	c := Change{UserID: id, SignedIn: set}
	for _, ch := range s.subs {
		// Slow subscribers only need the latest value.
		select {
		case <-ch:
		default:
		}
		ch <- c
	}
}

// Subscribe returns a channel of changes and a cancel func that closes it.
// Each channel buffers only the most recent change.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Change, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}
