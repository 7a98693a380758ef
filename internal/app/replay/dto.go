package replay

import (
	"time"

	"antforage/internal/domain/world"
)

type Request struct {
	FromTick uint64
	ToTick   uint64
	Type     string
	Limit    int
}

type Response struct {
	Events []Event         `json:"events"`
	Counts map[string]int  `json:"counts"`
	Food   []FoodRemaining `json:"food"`
}

type Event struct {
	Tick       uint64         `json:"tick"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// FoodRemaining is the last known unit count of a source seen in the
// returned events.
type FoodRemaining struct {
	Position  world.Position `json:"position"`
	Remaining int            `json:"remaining"`
	AsOfTick  uint64         `json:"as_of_tick"`
}
