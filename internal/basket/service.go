package basket

import (
	"log/slog"
	"sync"
)

// Service is the single mutation entry point for the basket. It serializes
// access, persists after every successful change, and degrades to in-memory
// operation when storage fails; a storage error is never surfaced to the
// caller as fatal.
type Service struct {
	mu     sync.Mutex
	basket *Basket
	store  Store
	log    *slog.Logger
}

// NewService loads the persisted basket from store. Malformed or unreadable
// persisted data is logged and treated as an empty basket; startup never
// fails on it.
func NewService(store Store, log *slog.Logger) *Service {
	s := &Service{basket: New(), store: store, log: log}

	ids, err := store.Load()
	if err != nil {
		log.Warn("basket load failed, starting empty", slog.String("error", err.Error()))
		return s
	}
	if len(ids) > 0 {
		s.basket = FromIDs(ids)
		log.Info("basket restored", slog.Int("size", s.basket.Len()))
	}
	return s
}

// Toggle adds or removes id and persists the result. The boolean reports
// whether the id is in the basket afterwards. ErrFull is returned when a new
// id cannot be added; the basket is unchanged and nothing is persisted.
func (s *Service) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.basket.Toggle(id)
	if err != nil {
		return false, err
	}
	s.persistLocked()
	return added, nil
}

// Clear empties the basket and persists the empty list.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.basket.Clear()
	s.persistLocked()
}

// Reconcile drops ids absent from the catalog and returns them. The result
// is persisted only when something was dropped.
func (s *Service) Reconcile(catalog Lookup) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := s.basket.Reconcile(catalog)
	if len(dropped) > 0 {
		s.log.Info("basket reconciled", slog.Int("dropped", len(dropped)))
		s.persistLocked()
	}
	return dropped
}

// Items returns a copy of the basket ids in insertion order.
func (s *Service) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Items()
}

// Len returns the current basket size.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Len()
}

// Contains reports whether id is currently in the basket.
func (s *Service) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket.Contains(id)
}

func (s *Service) persistLocked() {
	if err := s.store.Save(s.basket.Items()); err != nil {
		s.log.Warn("basket persist failed, continuing in-memory",
			slog.String("error", err.Error()))
	}
}
