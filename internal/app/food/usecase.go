package food

import (
	"context"
	"errors"
	"log"
	"time"

	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid food request")

const DefaultUnits = 200

type UseCase struct {
	Sim          ports.Simulation
	Events       ports.TickEventRepository
	Metrics      ports.TickMetrics
	DefaultUnits uint
	Now          func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	units := u.DefaultUnits
	if units == 0 {
		units = DefaultUnits
	}
	if req.Units != nil {
		if *req.Units < 0 {
			return Response{}, ErrInvalidRequest
		}
		units = uint(*req.Units)
	}
	pos := world.Position{X: req.X, Y: req.Y}

	tick, err := u.Sim.AddFood(ctx, pos, units)
	if err != nil {
		if u.Metrics != nil && (errors.Is(err, world.ErrFoodSourceExists) || errors.Is(err, world.ErrInvalidFoodUnits)) {
			u.Metrics.RecordFoodRejected()
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordFoodAdded()
	}
	if u.Events != nil {
		evt := ports.TickEvent{
			Tick:       tick,
			Type:       ports.EventFoodAdded,
			OccurredAt: u.now(),
			Payload:    map[string]any{"x": pos.X, "y": pos.Y, "units": units},
		}
		if err := u.Events.Append(ctx, []ports.TickEvent{evt}); err != nil {
			log.Printf("record food_added at %s: %v", pos, err)
		}
	}
	return Response{Position: pos, Units: units, Tick: tick}, nil
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}
