// Package optimistic applies local list edits ahead of the backend call that
// confirms them, and puts back the items it changed when that call fails.
package optimistic

import (
	"context"
	"sync"
)

// Slice is a mutex-guarded list of view models
type Slice[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewSlice creates a slice holding a copy of items
func NewSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{items: clone(items)}
}

// Snapshot returns a copy of the current contents
func (s *Slice[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

// Replace swaps in a copy of items
func (s *Slice[T]) Replace(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = clone(items)
}

// Len returns the number of items
func (s *Slice[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// Edit selects items with Match and changes them in place with Change
type Edit[T any] struct {
	Match  func(T) bool
	Change func(*T)
}

// UpdateWhere returns an Edit that applies fn to every item matching pred
func UpdateWhere[T any](pred func(T) bool, fn func(*T)) Edit[T] {
	return Edit[T]{Match: pred, Change: fn}
}

type revision[T comparable] struct {
	before T
	after  T
}

// Apply writes the edit into the slice, then runs call. If call fails, every edited
// item that still holds the value written here gets its previous value back; items
// changed by anyone else in the meantime are left alone. The error is returned unchanged.
func Apply[T comparable](ctx context.Context, s *Slice[T], edit Edit[T], call func(ctx context.Context) error) error {
	var revisions []revision[T]

	s.mu.Lock()
	for i := range s.items {
		if !edit.Match(s.items[i]) {
			continue
		}
		before := s.items[i]
		edit.Change(&s.items[i])
		if s.items[i] != before {
			revisions = append(revisions, revision[T]{before: before, after: s.items[i]})
		}
	}
	s.mu.Unlock()

	err := call(ctx)
	if err == nil || len(revisions) == 0 {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		for j, rev := range revisions {
			if s.items[i] == rev.after {
				s.items[i] = rev.before
				revisions = append(revisions[:j], revisions[j+1:]...)
				break
			}
		}
	}
	return err
}
