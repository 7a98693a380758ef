package ports

import (
	"context"
	"time"
)

const (
	EventFoodAdded     = "food_added"
	EventFoodConsumed  = "food_consumed"
	EventFoodExhausted = "food_exhausted"
	EventFoodDelivered = "food_delivered"
	EventFoodShared    = "food_shared"
)

type TickEvent struct {
	Tick       uint64
	Type       string
	OccurredAt time.Time
	Payload    map[string]any
}

type EventQuery struct {
	FromTick uint64
	ToTick   uint64
	Type     string
	Limit    int
}

// Matches reports whether evt falls inside the query window. Zero bounds
// are open.
func (q EventQuery) Matches(evt TickEvent) bool {
	if q.FromTick > 0 && evt.Tick < q.FromTick {
		return false
	}
	if q.ToTick > 0 && evt.Tick > q.ToTick {
		return false
	}
	if q.Type != "" && evt.Type != q.Type {
		return false
	}
	return true
}

type TickEventRepository interface {
	Append(ctx context.Context, events []TickEvent) error
	// List returns matching events newest first.
	List(ctx context.Context, q EventQuery) ([]TickEvent, error)
	// PruneBefore drops events older than tick and returns how many went.
	PruneBefore(ctx context.Context, tick uint64) (int64, error)
}
