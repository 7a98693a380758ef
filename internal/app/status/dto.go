package status

type Request struct{}

type Response struct {
	Running     bool   `json:"running"`
	Tick        uint64 `json:"tick"`
	IntervalMS  int64  `json:"interval_ms"`
	Agents      int    `json:"agents"`
	FoodSources int    `json:"food_sources"`
	KPI         any    `json:"kpi,omitempty"`
}
