package status

import (
	"context"

	"antforage/internal/app/ports"
)

type KPIProvider interface {
	SnapshotAny() any
}

type UseCase struct {
	Sim ports.Simulation
	KPI KPIProvider
}

func (u UseCase) Execute(ctx context.Context, _ Request) (Response, error) {
	st, err := u.Sim.Status(ctx)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		Running:     st.Running,
		Tick:        st.Tick,
		IntervalMS:  st.Interval.Milliseconds(),
		Agents:      st.Agents,
		FoodSources: st.FoodSources,
	}
	if u.KPI != nil {
		resp.KPI = u.KPI.SnapshotAny()
	}
	return resp, nil
}
