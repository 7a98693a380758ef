package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"antforage/internal/adapter/repo/memory"
	"antforage/internal/app/control"
	"antforage/internal/app/food"
	"antforage/internal/app/observe"
	"antforage/internal/app/ports"
	"antforage/internal/app/replay"
	"antforage/internal/app/simulation"
	"antforage/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestWriteError_FoodSourceExists(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, fmt.Errorf("%w: (1,1)", world.ErrFoodSourceExists))

	if got, want := ctx.Response.StatusCode(), consts.StatusConflict; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "food_source_exists"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_InvalidFoodUnits(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, world.ErrInvalidFoodUnits)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "invalid_food_source"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestWriteError_RunnerStopped(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, simulation.ErrRunnerStopped)

	if got, want := ctx.Response.StatusCode(), consts.StatusServiceUnavailable; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestWriteError_UnknownIsInternal(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, fmt.Errorf("disk on fire"))

	if got, want := ctx.Response.StatusCode(), consts.StatusInternalServerError; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	if got, want := errorCode(t, ctx), "internal_error"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestAddFood_Created(t *testing.T) {
	sim := &handlerSim{tick: 3}
	h := Handler{FoodUC: food.UseCase{Sim: sim, DefaultUnits: 200}}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"x":4,"y":-2}`))

	h.addFood(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusCreated; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var body food.Response
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Units != 200 || body.Tick != 3 || body.Position != (world.Position{X: 4, Y: -2}) {
		t.Fatalf("unexpected response %+v", body)
	}
	if sim.added != (world.Position{X: 4, Y: -2}) {
		t.Fatalf("simulation saw %s", sim.added)
	}
}

func TestAddFood_ExplicitZeroUnitsRejected(t *testing.T) {
	r := simulation.NewRunner(world.NewWorld(1, world.NewRand(1)), simulation.Config{
		Interval: time.Hour,
		Logger:   log.New(io.Discard, "", 0),
	})
	runCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = r.Run(runCtx) }()

	h := Handler{FoodUC: food.UseCase{Sim: r, DefaultUnits: 200}}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"x":1,"y":1,"units":0}`))

	h.addFood(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	if got, want := errorCode(t, ctx), "invalid_food_source"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
	st, err := r.Status(context.Background())
	if err != nil || st.FoodSources != 0 {
		t.Fatalf("expected no food placed, status=%+v err=%v", st, err)
	}
}

func TestAddFood_RequiresCoordinates(t *testing.T) {
	h := Handler{FoodUC: food.UseCase{Sim: &handlerSim{}}}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"x":4}`))

	h.addFood(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestAddFood_InvalidJSON(t *testing.T) {
	h := Handler{}
	ctx := &app.RequestContext{}
	ctx.Request.SetBody([]byte(`{"x":`))

	h.addFood(context.Background(), ctx)

	if got, want := errorCode(t, ctx), "invalid_json"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func TestObserve_UsesQueryWindow(t *testing.T) {
	sim := &handlerSim{snap: world.Snapshot{
		Tick: 2,
		Agents: []world.AgentView{
			{ID: 0, Position: world.Position{X: 10, Y: 10}},
			{ID: 1, Position: world.Position{X: 50, Y: 50}},
		},
	}}
	h := Handler{ObserveUC: observe.UseCase{Sim: sim}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/world?x=10&y=9&radius=1")

	h.observe(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d body=%s", got, want, ctx.Response.Body())
	}
	var body observe.Response
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(body.Agents) != 1 || body.Agents[0].ID != 0 || body.AgentCount != 2 {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestObserve_RejectsHalfCenter(t *testing.T) {
	h := Handler{ObserveUC: observe.UseCase{Sim: &handlerSim{}}}
	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/world?x=10")

	h.observe(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestControl_Step(t *testing.T) {
	sim := &handlerSim{}
	h := Handler{ControlUC: control.UseCase{Sim: sim}}
	ctx := &app.RequestContext{}

	h.control(control.CommandStep)(context.Background(), ctx)

	if got, want := ctx.Response.StatusCode(), consts.StatusOK; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
	var body control.Response
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Tick != 1 || body.Report == nil {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestEvents_NotFoundAndBadQuery(t *testing.T) {
	h := Handler{ReplayUC: replay.UseCase{Events: memory.NewEventRepo(memory.NewStore())}}

	ctx := &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/world/events")
	h.events(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusNotFound; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}

	ctx = &app.RequestContext{}
	ctx.Request.SetRequestURI("/api/world/events?from_tick=-4")
	h.events(context.Background(), ctx)
	if got, want := ctx.Response.StatusCode(), consts.StatusBadRequest; got != want {
		t.Fatalf("status mismatch: got=%d want=%d", got, want)
	}
}

func TestKPI_NotConfigured(t *testing.T) {
	ctx := &app.RequestContext{}
	Handler{}.kpi(context.Background(), ctx)
	if got, want := errorCode(t, ctx), "not_configured"; got != want {
		t.Fatalf("error code mismatch: got=%q want=%q", got, want)
	}
}

func errorCode(t *testing.T, ctx *app.RequestContext) string {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	code, _ := body["error"]["code"].(string)
	return code
}

type handlerSim struct {
	snap  world.Snapshot
	tick  uint64
	added world.Position
}

func (s *handlerSim) Snapshot(context.Context) (world.Snapshot, error) { return s.snap, nil }
func (s *handlerSim) AddFood(_ context.Context, pos world.Position, _ uint) (uint64, error) {
	s.added = pos
	return s.tick, nil
}
func (s *handlerSim) Step(context.Context) (world.TickReport, error) {
	s.tick++
	return world.TickReport{Tick: s.tick}, nil
}
func (s *handlerSim) Start(context.Context) error { return nil }
func (s *handlerSim) Stop(context.Context) error  { return nil }
func (s *handlerSim) Status(context.Context) (ports.SimulationStatus, error) {
	return ports.SimulationStatus{Tick: s.tick}, nil
}
