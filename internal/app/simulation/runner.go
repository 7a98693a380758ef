package simulation

import (
	"context"
	"errors"
	"log"
	"time"

	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

var ErrRunnerStopped = errors.New("simulation runner stopped")

const defaultInterval = 50 * time.Millisecond

type Config struct {
	Interval  time.Duration
	Autostart bool
	Sinks     []ports.TickSink
	Metrics   ports.TickMetrics
	Logger    *log.Logger
}

// Runner owns a World and is the only goroutine that touches it. Callers
// reach the world through commands executed between ticks.
type Runner struct {
	world *world.World
	cfg   Config

	cmds chan func()
	done chan struct{}

	// Owned by the Run goroutine.
	running bool
	timer   *time.Timer
}

func NewRunner(w *world.World, cfg Config) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Runner{
		world:   w,
		cfg:     cfg,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		running: cfg.Autostart,
	}
}

// Run drives the world until ctx is cancelled. The next tick is scheduled
// only after the previous one has finished, so a slow tick delays the
// schedule instead of being followed by a burst.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)

	r.timer = time.NewTimer(r.cfg.Interval)
	defer r.timer.Stop()
	if !r.running {
		r.timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-r.cmds:
			cmd()
		case <-r.timer.C:
			if !r.running {
				continue
			}
			r.step(ctx)
			r.timer.Reset(r.cfg.Interval)
		}
	}
}

func (r *Runner) step(ctx context.Context) world.TickReport {
	report := r.world.Step()
	if r.cfg.Metrics != nil {
		r.cfg.Metrics.RecordTick(report)
	}
	if len(r.cfg.Sinks) == 0 {
		return report
	}
	snap := r.world.Snapshot()
	for _, sink := range r.cfg.Sinks {
		if err := sink.OnTick(ctx, report, snap); err != nil {
			r.cfg.Logger.Printf("tick %d: sink %T: %v", report.Tick, sink, err)
		}
	}
	return report
}

func (r *Runner) do(ctx context.Context, fn func()) error {
	reply := make(chan struct{})
	cmd := func() {
		fn()
		close(reply)
	}
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return ErrRunnerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) Snapshot(ctx context.Context) (world.Snapshot, error) {
	var snap world.Snapshot
	err := r.do(ctx, func() { snap = r.world.Snapshot() })
	return snap, err
}

func (r *Runner) AddFood(ctx context.Context, pos world.Position, units uint) (uint64, error) {
	var (
		tick   uint64
		addErr error
	)
	err := r.do(ctx, func() {
		tick = r.world.Tick()
		addErr = r.world.AddFoodSource(pos, units)
	})
	if err != nil {
		return 0, err
	}
	return tick, addErr
}

// Step runs exactly one tick whether or not the schedule is running.
func (r *Runner) Step(ctx context.Context) (world.TickReport, error) {
	var report world.TickReport
	err := r.do(ctx, func() { report = r.step(ctx) })
	return report, err
}

func (r *Runner) Start(ctx context.Context) error {
	return r.do(ctx, func() {
		if r.running {
			return
		}
		r.running = true
		r.timer.Reset(r.cfg.Interval)
		r.cfg.Logger.Printf("simulation started at tick %d", r.world.Tick())
	})
}

func (r *Runner) Stop(ctx context.Context) error {
	return r.do(ctx, func() {
		if !r.running {
			return
		}
		r.running = false
		r.timer.Stop()
		r.cfg.Logger.Printf("simulation paused at tick %d", r.world.Tick())
	})
}

func (r *Runner) Status(ctx context.Context) (ports.SimulationStatus, error) {
	var st ports.SimulationStatus
	err := r.do(ctx, func() {
		st = ports.SimulationStatus{
			Running:     r.running,
			Tick:        r.world.Tick(),
			Interval:    r.cfg.Interval,
			Agents:      r.world.AgentCount(),
			FoodSources: r.world.FoodCount(),
		}
	})
	return st, err
}
