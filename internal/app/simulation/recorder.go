package simulation

import (
	"context"
	"fmt"
	"time"

	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

const pruneEveryTicks = 100

// EventRecorder turns tick reports into tick events. When Retain is set,
// events older than Retain ticks are pruned periodically.
type EventRecorder struct {
	Events    ports.TickEventRepository
	TxManager ports.TxManager
	Retain    uint64
	Now       func() time.Time
}

func (r EventRecorder) OnTick(ctx context.Context, report world.TickReport, _ world.Snapshot) error {
	events := EventsFromReport(report, r.now())
	prune := r.Retain > 0 && report.Tick > r.Retain && report.Tick%pruneEveryTicks == 0
	if len(events) == 0 && !prune {
		return nil
	}
	return r.TxManager.RunInTx(ctx, func(ctx context.Context) error {
		if err := r.Events.Append(ctx, events); err != nil {
			return fmt.Errorf("append tick events: %w", err)
		}
		if prune {
			if _, err := r.Events.PruneBefore(ctx, report.Tick-r.Retain); err != nil {
				return fmt.Errorf("prune tick events: %w", err)
			}
		}
		return nil
	})
}

func (r EventRecorder) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// EventsFromReport flattens a report into events in tick order: deliveries,
// consumptions, exhaustions, then shares.
func EventsFromReport(report world.TickReport, at time.Time) []ports.TickEvent {
	n := len(report.Deliveries) + len(report.Consumptions) + len(report.Exhausted) + len(report.Shares)
	if n == 0 {
		return nil
	}
	out := make([]ports.TickEvent, 0, n)
	add := func(typ string, payload map[string]any) {
		out = append(out, ports.TickEvent{Tick: report.Tick, Type: typ, OccurredAt: at, Payload: payload})
	}
	for _, d := range report.Deliveries {
		add(ports.EventFoodDelivered, map[string]any{"agent": d.Agent, "x": d.Position.X, "y": d.Position.Y})
	}
	for _, c := range report.Consumptions {
		add(ports.EventFoodConsumed, map[string]any{"agent": c.Agent, "x": c.Position.X, "y": c.Position.Y, "remaining": c.Remaining})
	}
	for _, p := range report.Exhausted {
		add(ports.EventFoodExhausted, map[string]any{"x": p.X, "y": p.Y})
	}
	for _, s := range report.Shares {
		add(ports.EventFoodShared, map[string]any{"from": s.From, "to": s.To, "x": s.Food.X, "y": s.Food.Y})
	}
	return out
}
