package basket

import "errors"

// Capacity is the maximum number of ids a basket holds. It matches the four
// fixed quadrants of the multiplayer view.
const Capacity = 4

// ErrFull is returned when adding a new id to a basket that already holds
// Capacity ids. It is a user-visible notice, not a fatal condition: the
// basket is left unchanged.
var ErrFull = errors.New("basket is full")

// Lookup answers membership questions against the current catalog.
// *catalog.Snapshot satisfies it.
type Lookup interface {
	Has(id string) bool
}

// Basket is a bounded, deduplicated, order-preserving set of video ids.
// It is not safe for concurrent use; Service serializes access.
type Basket struct {
	ids     []string
	members map[string]struct{}
}

// New returns an empty basket.
func New() *Basket {
	return &Basket{members: make(map[string]struct{})}
}

// FromIDs builds a basket from a persisted id list, dropping duplicates and
// truncating at Capacity.
func FromIDs(ids []string) *Basket {
	b := New()
	for _, id := range ids {
		if len(b.ids) == Capacity {
			break
		}
		if _, dup := b.members[id]; dup || id == "" {
			continue
		}
		b.members[id] = struct{}{}
		b.ids = append(b.ids, id)
	}
	return b
}

// Toggle removes id if present, appends it if absent. Adding to a full
// basket returns ErrFull and leaves the basket unchanged. The boolean
// reports whether the id ended up in the basket.
func (b *Basket) Toggle(id string) (bool, error) {
	if _, present := b.members[id]; present {
		b.remove(id)
		return false, nil
	}
	if len(b.ids) == Capacity {
		return false, ErrFull
	}
	b.members[id] = struct{}{}
	b.ids = append(b.ids, id)
	return true, nil
}

// Clear empties the basket unconditionally.
func (b *Basket) Clear() {
	b.ids = nil
	b.members = make(map[string]struct{})
}

// Reconcile drops every id with no matching catalog record and returns the
// dropped ids in basket order. Reconciling twice against the same catalog is
// a no-op the second time.
func (b *Basket) Reconcile(catalog Lookup) []string {
	var dropped []string
	kept := b.ids[:0]
	for _, id := range b.ids {
		if catalog.Has(id) {
			kept = append(kept, id)
			continue
		}
		delete(b.members, id)
		dropped = append(dropped, id)
	}
	b.ids = kept
	return dropped
}

// Items returns a copy of the ids in insertion order.
func (b *Basket) Items() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Len returns the number of ids in the basket.
func (b *Basket) Len() int {
	return len(b.ids)
}

// Contains reports whether id is in the basket.
func (b *Basket) Contains(id string) bool {
	_, ok := b.members[id]
	return ok
}

func (b *Basket) remove(id string) {
	delete(b.members, id)
	for i, existing := range b.ids {
		if existing == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			return
		}
	}
}
