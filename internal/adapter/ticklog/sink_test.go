package ticklog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"antforage/internal/domain/world"
)

func TestSink_WritesCompressedLinesPerHour(t *testing.T) {
	dir := t.TempDir()
	s := NewSink(dir)
	now := time.Date(2026, 5, 1, 10, 59, 0, 0, time.UTC)
	s.w.now = func() time.Time { return now }

	w := world.NewWorld(3, world.NewRand(7))
	if err := w.AddFoodSource(world.Position{X: 0, Y: 0}, 5); err != nil {
		t.Fatalf("add food: %v", err)
	}
	for i := 0; i < 2; i++ {
		r := w.Step()
		if err := s.OnTick(context.Background(), r, w.Snapshot()); err != nil {
			t.Fatalf("on tick: %v", err)
		}
	}
	now = now.Add(time.Minute)
	r := w.Step()
	if err := s.OnTick(context.Background(), r, w.Snapshot()); err != nil {
		t.Fatalf("on tick: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	first := filepath.Join(dir, "ticks", "ticks-2026-05-01-10.jsonl.zst")
	second := filepath.Join(dir, "ticks", "ticks-2026-05-01-11.jsonl.zst")
	for _, p := range []string{first, second} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s: %v", p, err)
		}
	}

	var ticks []uint64
	if err := ReadFile(first, func(e Entry) error {
		ticks = append(ticks, e.Tick)
		if e.Agents != 3 {
			t.Fatalf("expected 3 agents in entry, got %d", e.Agents)
		}
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Fatalf("unexpected ticks %v", ticks)
	}

	var last Entry
	if err := ReadFile(second, func(e Entry) error { last = e; return nil }); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if last.Tick != 3 || last.Report.Tick != 3 {
		t.Fatalf("unexpected last entry %+v", last)
	}
}
