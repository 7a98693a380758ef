package world

type Snapshot struct {
	Tick        uint64      `json:"tick"`
	Agents      []AgentView `json:"agents"`
	FoodSources []FoodView  `json:"food_sources"`
}

type AgentView struct {
	ID        int        `json:"id"`
	Position  Position   `json:"position"`
	Home      Position   `json:"home"`
	State     AgentState `json:"state"`
	Carrying  bool       `json:"carrying"`
	KnownFood *Position  `json:"known_food,omitempty"`
}

type FoodView struct {
	Position  Position `json:"position"`
	Remaining uint     `json:"remaining"`
}

// Snapshot copies the full world state for display.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick:        w.tick,
		Agents:      make([]AgentView, 0, len(w.agents)),
		FoodSources: make([]FoodView, 0, len(w.food)),
	}
	for i, a := range w.agents {
		v := AgentView{
			ID:       i,
			Position: a.position,
			Home:     a.home,
			State:    a.State(),
			Carrying: a.carrying,
		}
		if pos, ok := a.KnownFood(); ok {
			v.KnownFood = &pos
		}
		s.Agents = append(s.Agents, v)
	}
	for _, f := range w.FoodSources() {
		s.FoodSources = append(s.FoodSources, FoodView{Position: f.position, Remaining: f.remaining})
	}
	return s
}
