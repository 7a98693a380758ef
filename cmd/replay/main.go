package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"antforage/internal/adapter/ticklog"
	"antforage/internal/domain/world"
)

func main() {
	var (
		dir      = flag.String("dir", "", "tick log directory (the server's tick_log.dir)")
		fromTick = flag.Uint64("from_tick", 0, "first tick to include (optional)")
		toTick   = flag.Uint64("to_tick", 0, "last tick to include (optional)")
	)
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "missing -dir")
		os.Exit(2)
	}

	files, err := listTickFiles(filepath.Join(*dir, "ticks"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "list tick logs:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no tick logs found in", *dir)
		os.Exit(1)
	}

	sum, err := summarize(files, *fromTick, *toTick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("ticks=%d first=%d last=%d deliveries=%d consumed=%d shares=%d exhausted=%d\n",
		sum.Ticks, sum.FirstTick, sum.LastTick, sum.Deliveries, sum.Consumed, sum.Shares, len(sum.Exhausted))
	for _, e := range sum.Exhausted {
		fmt.Printf("  exhausted %s at tick %d\n", e.Position, e.Tick)
	}
}

type exhaustion struct {
	Tick     uint64
	Position world.Position
}

type summary struct {
	Ticks      int
	FirstTick  uint64
	LastTick   uint64
	Deliveries int
	Consumed   int
	Shares     int
	Exhausted  []exhaustion
}

func summarize(files []string, from, to uint64) (summary, error) {
	var s summary
	for _, path := range files {
		err := ticklog.ReadFile(path, func(e ticklog.Entry) error {
			if e.Tick < from || (to != 0 && e.Tick > to) {
				return nil
			}
			if s.Ticks == 0 {
				s.FirstTick = e.Tick
			} else if e.Tick <= s.LastTick {
				return fmt.Errorf("%s: tick %d after %d", filepath.Base(path), e.Tick, s.LastTick)
			}
			s.Ticks++
			s.LastTick = e.Tick
			s.Deliveries += len(e.Report.Deliveries)
			s.Consumed += len(e.Report.Consumptions)
			s.Shares += len(e.Report.Shares)
			for _, pos := range e.Report.Exhausted {
				s.Exhausted = append(s.Exhausted, exhaustion{Tick: e.Tick, Position: pos})
			}
			return nil
		})
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func listTickFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "ticks-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	// The hour stamp sorts lexically.
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}
