package ports

import (
	"context"
	"time"

	"antforage/internal/domain/world"
)

type SimulationStatus struct {
	Running     bool
	Tick        uint64
	Interval    time.Duration
	Agents      int
	FoodSources int
}

// Simulation is the serialised access point to a running World.
type Simulation interface {
	Snapshot(ctx context.Context) (world.Snapshot, error)
	// AddFood places a source and returns the tick it was placed at.
	AddFood(ctx context.Context, pos world.Position, units uint) (uint64, error)
	Step(ctx context.Context) (world.TickReport, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (SimulationStatus, error)
}
