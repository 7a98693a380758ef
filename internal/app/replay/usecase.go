package replay

import (
	"context"
	"errors"
	"sort"

	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type UseCase struct {
	Events ports.TickEventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Limit < 0 || (req.ToTick > 0 && req.ToTick < req.FromTick) {
		return Response{}, ErrInvalidRequest
	}
	if req.Type != "" && !knownType(req.Type) {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	events, err := u.Events.List(ctx, ports.EventQuery{
		FromTick: req.FromTick,
		ToTick:   req.ToTick,
		Type:     req.Type,
		Limit:    limit,
	})
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Events: make([]Event, 0, len(events)),
		Counts: map[string]int{},
	}
	for _, e := range events {
		resp.Events = append(resp.Events, Event{Tick: e.Tick, Type: e.Type, OccurredAt: e.OccurredAt, Payload: e.Payload})
		resp.Counts[e.Type]++
	}
	resp.Food = reconstructFood(events)
	return resp, nil
}

func knownType(t string) bool {
	switch t {
	case ports.EventFoodAdded, ports.EventFoodConsumed, ports.EventFoodExhausted,
		ports.EventFoodDelivered, ports.EventFoodShared:
		return true
	}
	return false
}

// reconstructFood expects events newest first, as repositories return them.
func reconstructFood(events []ports.TickEvent) []FoodRemaining {
	latest := map[world.Position]FoodRemaining{}
	for _, evt := range events {
		var remaining int
		switch evt.Type {
		case ports.EventFoodConsumed:
			remaining = int(num(evt.Payload["remaining"]))
		case ports.EventFoodAdded:
			remaining = int(num(evt.Payload["units"]))
		case ports.EventFoodExhausted:
			remaining = 0
		default:
			continue
		}
		pos := world.Position{X: int(num(evt.Payload["x"])), Y: int(num(evt.Payload["y"]))}
		if _, seen := latest[pos]; seen {
			continue
		}
		latest[pos] = FoodRemaining{Position: pos, Remaining: remaining, AsOfTick: evt.Tick}
	}
	out := make([]FoodRemaining, 0, len(latest))
	for _, f := range latest {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position.X != out[j].Position.X {
			return out[i].Position.X < out[j].Position.X
		}
		return out[i].Position.Y < out[j].Position.Y
	})
	return out
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
