package application

import (
	"maps"
	"slices"
	"sync"
)

// EventKind identifies what changed in the studio.
type EventKind string

const (
	EventCreated     EventKind = "created"
	EventUpdated     EventKind = "updated"
	EventDeleted     EventKind = "deleted"
	EventPublished   EventKind = "published"
	EventUnpublished EventKind = "unpublished"
	EventSelection   EventKind = "selection"
	EventSearch      EventKind = "search"
	EventFilter      EventKind = "filter"
)

// Event is delivered to subscribers after a change has been applied.
// PostID is empty for search and filter changes, and for a cleared selection.
type Event struct {
	Kind   EventKind
	PostID string
}

// Listener receives studio events. It runs on the goroutine that made the
// change and must not block.
type Listener func(Event)

type subscribers struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

func (s *subscribers) add(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// notify calls listeners in subscription order without holding the lock, so
// a listener may subscribe, unsubscribe or read the studio.
func (s *subscribers) notify(evt Event) {
	s.mu.Lock()
	ids := slices.Sorted(maps.Keys(s.listeners))
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(evt)
	}
}
