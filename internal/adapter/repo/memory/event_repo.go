package memory

import (
	"context"
	"sort"

	"antforage/internal/app/ports"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, events []ports.TickEvent) error {
	if len(events) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range events {
		r.store.events = append(r.store.events, cloneEvent(e))
	}
	return nil
}

// List orders by tick descending, later appends first within a tick. Events
// for an earlier tick may be appended after later ones, so insertion order
// alone is not newest first.
func (r EventRepo) List(_ context.Context, q ports.EventQuery) ([]ports.TickEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]ports.TickEvent, 0)
	for i := len(r.store.events) - 1; i >= 0; i-- {
		if e := r.store.events[i]; q.Matches(e) {
			out = append(out, cloneEvent(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick > out[j].Tick })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}

func (r EventRepo) PruneBefore(_ context.Context, tick uint64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.events[:0]
	var dropped int64
	for _, e := range r.store.events {
		if e.Tick < tick {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	r.store.events = kept
	return dropped, nil
}
