package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"antforage/internal/app/control"
	"antforage/internal/app/food"
	"antforage/internal/app/observe"
	"antforage/internal/app/ports"
	"antforage/internal/app/replay"
	"antforage/internal/app/simulation"
	"antforage/internal/app/status"
	"antforage/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	ObserveUC observe.UseCase
	FoodUC    food.UseCase
	ControlUC control.UseCase
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
	KPI       kpiSnapshotProvider

	// CORSOrigins limits browser origins; empty allows all.
	CORSOrigins []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigins))

	s.GET("/api/world", h.observe)
	api := s.Group("/api/world")
	api.POST("/food", h.addFood)
	api.POST("/start", h.control(control.CommandStart))
	api.POST("/stop", h.control(control.CommandStop))
	api.POST("/step", h.control(control.CommandStep))
	api.GET("/status", h.status)
	api.GET("/events", h.events)

	s.GET("/ops/kpi", h.kpi)
}

type foodRequest struct {
	X     *int `json:"x"`
	Y     *int `json:"y"`
	Units *int `json:"units"`
}

var ErrInvalidQuery = errors.New("invalid query parameter")

func (h Handler) observe(c context.Context, ctx *app.RequestContext) {
	req, err := observeRequestFromQuery(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.ObserveUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func observeRequestFromQuery(ctx *app.RequestContext) (observe.Request, error) {
	rawX := strings.TrimSpace(string(ctx.Query("x")))
	rawY := strings.TrimSpace(string(ctx.Query("y")))
	radius, err := intQuery(ctx, "radius")
	if err != nil {
		return observe.Request{}, err
	}
	if rawX == "" && rawY == "" {
		return observe.Request{Radius: radius}, nil
	}
	x, errX := strconv.Atoi(rawX)
	y, errY := strconv.Atoi(rawY)
	if errX != nil || errY != nil {
		return observe.Request{}, ErrInvalidQuery
	}
	return observe.Request{Center: &world.Position{X: x, Y: y}, Radius: radius}, nil
}

func (h Handler) addFood(c context.Context, ctx *app.RequestContext) {
	var body foodRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.X == nil || body.Y == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "x and y are required")
		return
	}
	resp, err := h.FoodUC.Execute(c, food.Request{X: *body.X, Y: *body.Y, Units: body.Units})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) control(cmd control.Command) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		resp, err := h.ControlUC.Execute(c, control.Request{Command: cmd})
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	}
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Execute(c, status.Request{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	limit, err := intQuery(ctx, "limit")
	if err != nil {
		writeError(ctx, err)
		return
	}
	from, err := uintQuery(ctx, "from_tick")
	if err != nil {
		writeError(ctx, err)
		return
	}
	to, err := uintQuery(ctx, "to_tick")
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		FromTick: from,
		ToTick:   to,
		Type:     strings.TrimSpace(string(ctx.Query("type"))),
		Limit:    limit,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func intQuery(ctx *app.RequestContext, key string) (int, error) {
	raw := strings.TrimSpace(string(ctx.Query(key)))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidQuery
	}
	return n, nil
}

func uintQuery(ctx *app.RequestContext, key string) (uint64, error) {
	raw := strings.TrimSpace(string(ctx.Query(key)))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidQuery
	}
	return n, nil
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, world.ErrFoodSourceExists):
		writeErrorBody(ctx, consts.StatusConflict, "food_source_exists", err.Error())
	case errors.Is(err, world.ErrInvalidFoodUnits):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_food_source", err.Error())
	case errors.Is(err, ErrInvalidQuery),
		errors.Is(err, observe.ErrInvalidRequest),
		errors.Is(err, food.ErrInvalidRequest),
		errors.Is(err, control.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, simulation.ErrRunnerStopped),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "simulation_unavailable", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
