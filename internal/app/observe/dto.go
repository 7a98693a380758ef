package observe

import "antforage/internal/domain/world"

// Request optionally narrows the view to a square window around Center.
type Request struct {
	Center *world.Position
	Radius int
}

type Response struct {
	Tick        uint64            `json:"tick"`
	View        *View             `json:"view,omitempty"`
	AgentCount  int               `json:"agent_count"`
	StateCounts map[string]int    `json:"state_counts"`
	Agents      []world.AgentView `json:"agents"`
	FoodSources []world.FoodView  `json:"food_sources"`
}

type View struct {
	Center world.Position `json:"center"`
	Radius int            `json:"radius"`
}
