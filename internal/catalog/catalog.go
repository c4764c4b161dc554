package catalog

import (
	"sort"
	"sync"
)

// Snapshot is an immutable catalog of video records, keyed by id.
// A snapshot is built once at ingestion and never mutated; replacing the
// catalog means swapping the whole snapshot through a Store.
type Snapshot struct {
	records []Video
	byID    map[string]int
}

// NewSnapshot builds a snapshot from records, preserving order.
// A later record with a duplicate id is dropped, keeping the first.
func NewSnapshot(records []Video) *Snapshot {
	s := &Snapshot{
		records: make([]Video, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for _, v := range records {
		if _, dup := s.byID[v.ID]; dup {
			continue
		}
		s.byID[v.ID] = len(s.records)
		s.records = append(s.records, v)
	}
	return s
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Records returns a copy of all records in snapshot order.
func (s *Snapshot) Records() []Video {
	out := make([]Video, len(s.records))
	copy(out, s.records)
	return out
}

// ByID returns the record with the given id.
func (s *Snapshot) ByID(id string) (Video, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Video{}, false
	}
	return s.records[i], true
}

// Has reports whether a record with the given id exists.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Page returns the records for a 1-based page of the given size, optionally
// restricted to one category, along with the total count before paging.
func (s *Snapshot) Page(page, size int, category string) ([]Video, int) {
	records := s.records
	if category != "" && category != "all" {
		filtered := make([]Video, 0)
		for _, v := range records {
			if v.Category == category {
				filtered = append(filtered, v)
			}
		}
		records = filtered
	}

	total := len(records)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return nil, total
	}
	start := (page - 1) * size
	if start >= total {
		return nil, total
	}
	end := start + size
	if end > total {
		end = total
	}
	out := make([]Video, end-start)
	copy(out, records[start:end])
	return out, total
}

// Categories returns the distinct categories present in the snapshot,
// sorted by label, prefixed with the synthetic "All" entry.
func (s *Snapshot) Categories() []Category {
	seen := make(map[string]string)
	for _, v := range s.records {
		if _, ok := seen[v.Category]; !ok {
			label := v.CategoryLabel
			if label == "" {
				label = v.Category
			}
			seen[v.Category] = label
		}
	}

	cats := make([]Category, 0, len(seen)+1)
	for value, label := range seen {
		cats = append(cats, Category{Label: label, Value: value})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Label < cats[j].Label })

	return append([]Category{{Label: "All", Value: "all"}}, cats...)
}

// Store holds the current catalog snapshot and swaps it atomically.
// Readers always observe a complete snapshot, never a partial update.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore returns a store holding an empty snapshot.
func NewStore() *Store {
	return &Store{current: NewSnapshot(nil)}
}

// Current returns the current snapshot.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a new snapshot wholesale.
func (s *Store) Replace(snap *Snapshot) {
	if snap == nil {
		snap = NewSnapshot(nil)
	}
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}
