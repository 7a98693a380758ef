package ticklog

import (
	"context"
	"path/filepath"
	"time"

	"antforage/internal/domain/world"
)

// Entry is one line of the tick log.
type Entry struct {
	Tick        uint64           `json:"tick"`
	At          time.Time        `json:"at"`
	Agents      int              `json:"agents"`
	FoodSources int              `json:"food_sources"`
	Report      world.TickReport `json:"report"`
}

// Sink writes every tick to <dir>/ticks/ticks-<hour>.jsonl.zst.
type Sink struct {
	w *Writer
}

func NewSink(dir string) *Sink {
	return &Sink{w: NewWriter(filepath.Join(dir, "ticks"), "ticks")}
}

func (s *Sink) OnTick(_ context.Context, report world.TickReport, snap world.Snapshot) error {
	return s.w.Write(Entry{
		Tick:        report.Tick,
		At:          s.w.now().UTC(),
		Agents:      len(snap.Agents),
		FoodSources: len(snap.FoodSources),
		Report:      report,
	})
}

func (s *Sink) Close() error { return s.w.Close() }
