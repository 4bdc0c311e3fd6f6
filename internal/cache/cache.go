// Package cache holds derived read models (invoices, plans, summaries) so
// list endpoints do not recompute them on every request. Entries expire by
// TTL and the whole store is purged on any ledger mutation.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// Store is an LRU cache with per-entry TTL.
type Store[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	index    map[string]*list.Element
	order    *list.List
}

func New[T any](capacity int, ttl time.Duration) *Store[T] {
	return &Store[T]{
		capacity: capacity,
		ttl:      ttl,
		index:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	elem, ok := s.index[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		s.remove(elem)
		return zero, false
	}

	s.order.MoveToFront(elem)
	return e.value, true
}

func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry[T]{key: key, value: value, expiresAt: time.Now().Add(s.ttl)}
	if elem, ok := s.index[key]; ok {
		elem.Value = e
		s.order.MoveToFront(elem)
		return
	}

	s.index[key] = s.order.PushFront(e)
	if s.order.Len() > s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.remove(oldest)
		}
	}
}

// Invalidate drops one key.
func (s *Store[T]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.index[key]; ok {
		s.remove(elem)
	}
}

// Purge drops everything. Called after writes so reads never serve a view
// from before the mutation.
func (s *Store[T]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]*list.Element)
	s.order.Init()
}

// CleanExpired removes entries past their TTL and reports how many went.
func (s *Store[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var stale []*list.Element
	for elem := s.order.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		s.remove(elem)
	}
	return len(stale)
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

func (s *Store[T]) remove(elem *list.Element) {
	delete(s.index, elem.Value.(*entry[T]).key)
	s.order.Remove(elem)
}

// StartJanitor sweeps expired entries every interval until ctx is done.
func (s *Store[T]) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanExpired()
			}
		}
	}()
}
