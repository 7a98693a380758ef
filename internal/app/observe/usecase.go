package observe

import (
	"context"
	"errors"

	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid observe request")

type UseCase struct {
	Sim ports.Simulation
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Radius < 0 || (req.Center == nil && req.Radius > 0) {
		return Response{}, ErrInvalidRequest
	}
	snap, err := u.Sim.Snapshot(ctx)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Tick:        snap.Tick,
		AgentCount:  len(snap.Agents),
		StateCounts: map[string]int{},
		Agents:      snap.Agents,
		FoodSources: snap.FoodSources,
	}
	for _, a := range snap.Agents {
		resp.StateCounts[string(a.State)]++
	}
	if req.Center == nil {
		return resp, nil
	}

	center := *req.Center
	resp.View = &View{Center: center, Radius: req.Radius}
	resp.Agents = make([]world.AgentView, 0)
	for _, a := range snap.Agents {
		if inWindow(a.Position, center, req.Radius) {
			resp.Agents = append(resp.Agents, a)
		}
	}
	resp.FoodSources = make([]world.FoodView, 0)
	for _, f := range snap.FoodSources {
		if inWindow(f.Position, center, req.Radius) {
			resp.FoodSources = append(resp.FoodSources, f)
		}
	}
	return resp, nil
}

func inWindow(p, center world.Position, radius int) bool {
	return p.X >= center.X-radius && p.X <= center.X+radius &&
		p.Y >= center.Y-radius && p.Y <= center.Y+radius
}
