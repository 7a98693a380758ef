package simulation

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"antforage/internal/adapter/metrics/inmemory"
	"antforage/internal/adapter/repo/memory"
	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

type stillRand struct{}

func (stillRand) Intn(int) int { return 1 }

type captureSink struct {
	mu    sync.Mutex
	ticks []uint64
	err   error
}

func (c *captureSink) OnTick(_ context.Context, report world.TickReport, snap world.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if report.Tick != snap.Tick {
		c.err = errors.New("snapshot out of step with report")
	}
	c.ticks = append(c.ticks, report.Tick)
	return c.err
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

func startRunner(t *testing.T, w *world.World, cfg Config) *Runner {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	r := NewRunner(w, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("run returned %v", err)
		}
	})
	return r
}

func TestRunner_StepConsumesAndRecords(t *testing.T) {
	store := memory.NewStore()
	events := memory.NewEventRepo(store)
	metrics := inmemory.NewRecorder()
	sink := &captureSink{}
	r := startRunner(t, world.NewWorld(1, stillRand{}), Config{
		Interval: time.Hour,
		Metrics:  metrics,
		Sinks: []ports.TickSink{
			sink,
			EventRecorder{Events: events, TxManager: memory.NewTxManager(store)},
		},
	})
	ctx := context.Background()

	if _, err := r.AddFood(ctx, world.Position{}, 1); err != nil {
		t.Fatalf("add food: %v", err)
	}
	report, err := r.Step(ctx)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if report.Tick != 1 || len(report.Consumptions) != 1 || len(report.Exhausted) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	snap, err := r.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.FoodSources) != 0 || !snap.Agents[0].Carrying {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if sink.count() != 1 {
		t.Fatalf("expected one sink call, got %d", sink.count())
	}
	if got := metrics.Snapshot(); got.Ticks != 1 || got.UnitsConsumed != 1 || got.SourcesEmptied != 1 {
		t.Fatalf("unexpected metrics %+v", got)
	}
	recorded, err := events.List(ctx, ports.EventQuery{})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(recorded) != 2 || recorded[0].Type != ports.EventFoodExhausted || recorded[1].Type != ports.EventFoodConsumed {
		t.Fatalf("unexpected events %+v", recorded)
	}
}

func TestRunner_AddFoodRejectsDuplicate(t *testing.T) {
	r := startRunner(t, world.NewWorld(0, stillRand{}), Config{Interval: time.Hour})
	ctx := context.Background()
	if _, err := r.AddFood(ctx, world.Position{X: 3}, 5); err != nil {
		t.Fatalf("add food: %v", err)
	}
	if _, err := r.AddFood(ctx, world.Position{X: 3}, 5); !errors.Is(err, world.ErrFoodSourceExists) {
		t.Fatalf("expected ErrFoodSourceExists, got %v", err)
	}
}

func TestRunner_StartStopControlsSchedule(t *testing.T) {
	sink := &captureSink{}
	r := startRunner(t, world.NewWorld(2, stillRand{}), Config{
		Interval: time.Millisecond,
		Sinks:    []ports.TickSink{sink},
	})
	ctx := context.Background()

	time.Sleep(20 * time.Millisecond)
	if sink.count() != 0 {
		t.Fatalf("runner ticked without autostart")
	}

	if err := r.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for sink.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if sink.count() < 3 {
		t.Fatalf("expected ticks after start, got %d", sink.count())
	}

	if err := r.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	st, err := r.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Running {
		t.Fatalf("expected paused status")
	}
	paused := sink.count()
	time.Sleep(20 * time.Millisecond)
	if sink.count() != paused {
		t.Fatalf("runner ticked while paused: %d -> %d", paused, sink.count())
	}
	if st.Tick != uint64(paused) {
		t.Fatalf("status tick %d, sink saw %d", st.Tick, paused)
	}
}

func TestRunner_CommandsAfterRunReturn(t *testing.T) {
	r := NewRunner(world.NewWorld(1, stillRand{}), Config{Logger: log.New(io.Discard, "", 0)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := r.Step(context.Background()); !errors.Is(err, ErrRunnerStopped) {
		t.Fatalf("expected ErrRunnerStopped, got %v", err)
	}
}

func TestRunner_SinkErrorDoesNotStopTicks(t *testing.T) {
	sink := &captureSink{err: errors.New("boom")}
	r := startRunner(t, world.NewWorld(1, stillRand{}), Config{
		Interval: time.Hour,
		Sinks:    []ports.TickSink{sink},
	})
	for i := 0; i < 2; i++ {
		if _, err := r.Step(context.Background()); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if sink.count() != 2 {
		t.Fatalf("expected two sink calls, got %d", sink.count())
	}
}

func TestEventsFromReportOrder(t *testing.T) {
	at := time.Unix(100, 0)
	events := EventsFromReport(world.TickReport{
		Tick:         7,
		Deliveries:   []world.Delivery{{Agent: 1}},
		Consumptions: []world.Consumption{{Agent: 0, Position: world.Position{X: 1, Y: 2}, Remaining: 4}},
		Shares:       []world.Share{{From: 0, To: 3, Food: world.Position{X: 1, Y: 2}}},
	}, at)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	wantTypes := []string{ports.EventFoodDelivered, ports.EventFoodConsumed, ports.EventFoodShared}
	for i, e := range events {
		if e.Type != wantTypes[i] || e.Tick != 7 || !e.OccurredAt.Equal(at) {
			t.Fatalf("event %d mismatch: %+v", i, e)
		}
	}
	if events[1].Payload["remaining"] != uint(4) {
		t.Fatalf("unexpected payload %+v", events[1].Payload)
	}
	if EventsFromReport(world.TickReport{Tick: 1}, at) != nil {
		t.Fatalf("expected nil events for quiet tick")
	}
}

func TestEventRecorder_PrunesOldEvents(t *testing.T) {
	store := memory.NewStore()
	events := memory.NewEventRepo(store)
	rec := EventRecorder{Events: events, TxManager: memory.NewTxManager(store), Retain: 10}
	ctx := context.Background()
	_ = events.Append(ctx, []ports.TickEvent{{Tick: 5, Type: ports.EventFoodAdded}, {Tick: 95, Type: ports.EventFoodAdded}})

	if err := rec.OnTick(ctx, world.TickReport{Tick: 100}, world.Snapshot{}); err != nil {
		t.Fatalf("on tick: %v", err)
	}
	got, _ := events.List(ctx, ports.EventQuery{})
	if len(got) != 1 || got[0].Tick != 95 {
		t.Fatalf("unexpected events after prune %+v", got)
	}
}
