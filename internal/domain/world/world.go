package world

import (
	"errors"
	"fmt"
)

var (
	ErrFoodSourceExists = errors.New("food source already exists at position")
	ErrInvalidFoodUnits = errors.New("food source needs at least one unit")
)

// World owns the agents and the food index. It is not safe for concurrent
// use; a single goroutine must drive it.
type World struct {
	agents []Agent
	food   map[Position]*FoodSource
	rng    Rand
	tick   uint64
}

type Option func(*options)

type options struct {
	home  Position
	homes func(i int) Position
}

// WithHome places every agent's home at pos. The default is the origin.
func WithHome(pos Position) Option {
	return func(o *options) { o.home = pos }
}

// WithHomes assigns a home per agent index and overrides WithHome.
func WithHomes(fn func(i int) Position) Option {
	return func(o *options) { o.homes = fn }
}

// NewWorld creates agentCount agents at their home. A non-positive count
// yields an empty world. A nil rng falls back to NewRand(1).
func NewWorld(agentCount int, rng Rand, opts ...Option) *World {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if rng == nil {
		rng = NewRand(1)
	}
	if agentCount < 0 {
		agentCount = 0
	}
	w := &World{
		agents: make([]Agent, 0, agentCount),
		food:   map[Position]*FoodSource{},
		rng:    rng,
	}
	for i := 0; i < agentCount; i++ {
		home := o.home
		if o.homes != nil {
			home = o.homes(i)
		}
		w.agents = append(w.agents, newAgent(home))
	}
	return w
}

// AddFoodSource places a new source. A cell holds at most one source;
// a second one at the same cell is rejected rather than replacing it.
func (w *World) AddFoodSource(pos Position, units uint) error {
	if units == 0 {
		return ErrInvalidFoodUnits
	}
	if _, ok := w.food[pos]; ok {
		return fmt.Errorf("%w: %s", ErrFoodSourceExists, pos)
	}
	w.food[pos] = NewFoodSource(pos, units)
	return nil
}

func (w *World) Tick() uint64 { return w.tick }

func (w *World) AgentCount() int { return len(w.agents) }

func (w *World) FoodCount() int { return len(w.food) }

// Agents returns a copy of the agents in creation order.
func (w *World) Agents() []Agent {
	out := make([]Agent, len(w.agents))
	copy(out, w.agents)
	return out
}

// FoodSources returns copies of the active sources ordered by position.
func (w *World) FoodSources() []FoodSource {
	out := make([]FoodSource, 0, len(w.food))
	for _, pos := range w.foodPositions() {
		out = append(out, *w.food[pos])
	}
	return out
}

// Iterate advances the world by one tick.
func (w *World) Iterate() {
	w.Step()
}

// Step advances the world by one tick and reports what happened. A world
// without agents is left untouched, tick counter included.
func (w *World) Step() TickReport {
	if len(w.agents) == 0 {
		return TickReport{Tick: w.tick}
	}
	w.tick++
	report := TickReport{Tick: w.tick}

	for i := range w.agents {
		if w.agents[i].move(w.rng) {
			report.Deliveries = append(report.Deliveries, Delivery{
				Agent:    i,
				Position: w.agents[i].position,
			})
		}
	}

	groups := groupByPosition(w.agents)

	for i := range w.agents {
		a := &w.agents[i]
		src, ok := w.food[a.position]
		if !ok || src.Exhausted() {
			continue
		}
		a.consume(src)
		report.Consumptions = append(report.Consumptions, Consumption{
			Agent:     i,
			Position:  src.Position(),
			Remaining: src.Remaining(),
		})
		if src.Exhausted() {
			delete(w.food, a.position)
			report.Exhausted = append(report.Exhausted, src.Position())
		}
	}

	for _, g := range groups {
		report.Shares = append(report.Shares, shareFoodKnowledge(w.agents, g.agents)...)
	}
	return report
}

func (w *World) foodPositions() []Position {
	out := make([]Position, 0, len(w.food))
	for pos := range w.food {
		out = append(out, pos)
	}
	sortPositions(out)
	return out
}
