package world

// TickReport describes the observable effects of one tick.
type TickReport struct {
	Tick         uint64        `json:"tick"`
	Deliveries   []Delivery    `json:"deliveries,omitempty"`
	Consumptions []Consumption `json:"consumptions,omitempty"`
	Exhausted    []Position    `json:"exhausted,omitempty"`
	Shares       []Share       `json:"shares,omitempty"`
}

// Delivery is an agent reaching home while carrying food.
type Delivery struct {
	Agent    int      `json:"agent"`
	Position Position `json:"position"`
}

type Consumption struct {
	Agent     int      `json:"agent"`
	Position  Position `json:"position"`
	Remaining uint     `json:"remaining"`
}

// Share is one agent adopting another's food signal.
type Share struct {
	From int      `json:"from"`
	To   int      `json:"to"`
	Food Position `json:"food"`
}

func (r TickReport) Empty() bool {
	return len(r.Deliveries) == 0 && len(r.Consumptions) == 0 && len(r.Exhausted) == 0 && len(r.Shares) == 0
}
