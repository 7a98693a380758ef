package inmemory

import (
	"sync"

	"antforage/internal/domain/world"
)

type Snapshot struct {
	Ticks          uint64 `json:"ticks"`
	FoodAdded      uint64 `json:"food_added"`
	FoodRejected   uint64 `json:"food_rejected"`
	UnitsConsumed  uint64 `json:"units_consumed"`
	SourcesEmptied uint64 `json:"sources_exhausted"`
	Deliveries     uint64 `json:"deliveries"`
	Shares         uint64 `json:"knowledge_shares"`
}

type Recorder struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordTick(report world.TickReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Ticks++
	r.snap.UnitsConsumed += uint64(len(report.Consumptions))
	r.snap.SourcesEmptied += uint64(len(report.Exhausted))
	r.snap.Deliveries += uint64(len(report.Deliveries))
	r.snap.Shares += uint64(len(report.Shares))
}

func (r *Recorder) RecordFoodAdded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.FoodAdded++
}

func (r *Recorder) RecordFoodRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.FoodRejected++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
