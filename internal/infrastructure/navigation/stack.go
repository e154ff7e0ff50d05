// Package navigation provides the in-memory screen stack of a client device.
package navigation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goldenbites/campus-eats/internal/core/domain"
)

const rootPath = "/"

// Stack is a device's route history. The top entry is the visible screen.
type Stack struct {
	mu        sync.Mutex
	entries   []string
	next      uint64
	listeners map[uint64]func()
}

// NewStack returns a stack holding only the root route.
func NewStack() *Stack {
	return &Stack{
		entries:   []string{rootPath},
		listeners: make(map[uint64]func()),
	}
}

// Push navigates to path and notifies route-change listeners.
func (s *Stack) Push(path string) error {
	if !domain.ValidRoutePath(path) {
		return fmt.Errorf("push %q: %w", path, domain.ErrInvalidRoute)
	}
	s.mu.Lock()
	s.entries = append(s.entries, path)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Back pops the top entry. The root entry is never popped.
func (s *Stack) Back() bool {
	s.mu.Lock()
	if len(s.entries) <= 1 {
		s.mu.Unlock()
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	s.mu.Unlock()

	s.notify()
	return true
}

// ReplaceRoute swaps the top entry for target without notifying listeners.
func (s *Stack) ReplaceRoute(target domain.RouteTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[len(s.entries)-1] = target.Path()
}

func (s *Stack) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[len(s.entries)-1]
}

func (s *Stack) CurrentRouteSegment() domain.RouteSegment {
	return domain.ParseRouteSegment(s.CurrentPath())
}

// Depth returns the number of entries, root included.
func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// OnRouteChange registers fn to run after every Push and Back.
func (s *Stack) OnRouteChange(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.next++
	id := s.next
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Stack) notify() {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
