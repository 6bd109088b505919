package cache

import (
	"sync"
	"time"

	"github.com/danmuck/rowcodec/internal/clock"
	"github.com/danmuck/rowcodec/internal/observability"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTTL         = 15 * time.Minute
	DefaultFreshWindow = 5 * time.Second
)

// Entry is one cached value.
type Entry[T any] struct {
	Value      T
	Expiration time.Time
	Updated    time.Time
}

// Store is a keyed cache for one entity kind. Safe for concurrent use.
type Store[T any] struct {
	kind  string
	ttl   time.Duration
	fresh time.Duration
	clock clock.Clock
	clone func(T) T

	mu      sync.Mutex
	entries map[string]Entry[T]
}

// Option configures a Store.
type Option func(*settings)

type settings struct {
	ttl   time.Duration
	fresh time.Duration
	clock clock.Clock
}

// WithTTL sets how long a written value stays readable.
func WithTTL(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithFreshWindow sets how recently a value must have been written for
// ReadFresh to return it.
func WithFreshWindow(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.fresh = d
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{ttl: DefaultTTL, fresh: DefaultFreshWindow, clock: clock.Real()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// NewStore creates an empty store labelled kind.
func NewStore[T any](kind string, opts ...Option) *Store[T] {
	return newStore[T](kind, nil, newSettings(opts))
}

func newStore[T any](kind string, clone func(T) T, s settings) *Store[T] {
	return &Store[T]{
		kind:    kind,
		ttl:     s.ttl,
		fresh:   s.fresh,
		clock:   s.clock,
		clone:   clone,
		entries: make(map[string]Entry[T]),
	}
}

func (s *Store[T]) Kind() string { return s.kind }

// Key returns the accessor for id.
func (s *Store[T]) Key(id string) Accessor[T] {
	return Accessor[T]{store: s, id: id}
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Prune drops expired entries and returns how many were removed.
func (s *Store[T]) Prune() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if e.Expiration.Before(now) {
			delete(s.entries, id)
			n++
		}
	}
	if n > 0 {
		log.Debug().Str("kind", s.kind).Int("pruned", n).Msg("cache.Prune")
	}
	return n
}

func (s *Store[T]) read(id string, maxAge time.Duration) (T, bool) {
	var zero T
	now := s.clock.Now()
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()

	switch {
	case !ok:
		observability.RecordCacheLookup(s.kind, "miss")
		return zero, false
	case e.Expiration.Before(now):
		observability.RecordCacheLookup(s.kind, "expired")
		return zero, false
	case maxAge > 0 && now.Sub(e.Updated) > maxAge:
		observability.RecordCacheLookup(s.kind, "stale")
		return zero, false
	}
	observability.RecordCacheLookup(s.kind, "hit")
	return s.copyOf(e.Value), true
}

func (s *Store[T]) copyOf(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

func (s *Store[T]) write(id string, v T) T {
	stored := s.copyOf(v)
	now := s.clock.Now()
	s.mu.Lock()
	s.entries[id] = Entry[T]{Value: stored, Expiration: now.Add(s.ttl), Updated: now}
	s.mu.Unlock()
	log.Debug().Str("kind", s.kind).Str("id", id).Msg("cache.Write")
	return s.copyOf(stored)
}

func (s *Store[T]) invalidate(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	log.Debug().Str("kind", s.kind).Str("id", id).Msg("cache.Invalidate")
}

// Accessor addresses one cache key.
type Accessor[T any] struct {
	store *Store[T]
	id    string
}

func (a Accessor[T]) ID() string { return a.id }

// Read returns the cached value unless it is missing or expired.
func (a Accessor[T]) Read() (T, bool) {
	return a.store.read(a.id, 0)
}

// ReadFresh is Read that additionally requires the value to have been
// written within the store's fresh window.
func (a Accessor[T]) ReadFresh() (T, bool) {
	return a.store.read(a.id, a.store.fresh)
}

// Write stores v with a newly computed expiry and returns the stored value.
func (a Accessor[T]) Write(v T) T {
	return a.store.write(a.id, v)
}

// Invalidate removes the entry.
func (a Accessor[T]) Invalidate() {
	a.store.invalidate(a.id)
}
