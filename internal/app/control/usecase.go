package control

import (
	"context"
	"errors"

	"antforage/internal/app/ports"
	"antforage/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid control request")

type Command string

const (
	CommandStart Command = "start"
	CommandStop  Command = "stop"
	CommandStep  Command = "step"
)

type Request struct {
	Command Command
}

type Response struct {
	Running bool              `json:"running"`
	Tick    uint64            `json:"tick"`
	Report  *world.TickReport `json:"report,omitempty"`
}

type UseCase struct {
	Sim ports.Simulation
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	var resp Response
	switch req.Command {
	case CommandStart:
		if err := u.Sim.Start(ctx); err != nil {
			return Response{}, err
		}
	case CommandStop:
		if err := u.Sim.Stop(ctx); err != nil {
			return Response{}, err
		}
	case CommandStep:
		report, err := u.Sim.Step(ctx)
		if err != nil {
			return Response{}, err
		}
		resp.Report = &report
	default:
		return Response{}, ErrInvalidRequest
	}

	st, err := u.Sim.Status(ctx)
	if err != nil {
		return Response{}, err
	}
	resp.Running = st.Running
	resp.Tick = st.Tick
	return resp, nil
}
