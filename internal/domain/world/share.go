package world

import "sort"

type cellGroup struct {
	position Position
	agents   []int
}

// groupByPosition buckets agent indices by their current cell. Buckets are
// ordered by first appearance and hold indices in creation order.
func groupByPosition(agents []Agent) []cellGroup {
	index := make(map[Position]int, len(agents))
	groups := make([]cellGroup, 0, len(agents))
	for i, a := range agents {
		g, ok := index[a.position]
		if !ok {
			g = len(groups)
			index[a.position] = g
			groups = append(groups, cellGroup{position: a.position})
		}
		groups[g].agents = append(groups[g].agents, i)
	}
	return groups
}

// firstInformed returns the first agent in bucket that remembers food.
func firstInformed(agents []Agent, bucket []int) (int, bool) {
	for _, i := range bucket {
		if agents[i].knowsFood {
			return i, true
		}
	}
	return 0, false
}

// shareFoodKnowledge tells every idle agent in bucket about food. The
// signal is the informant's current cell, not the food it originally found,
// and only the first informant in the bucket is heard.
func shareFoodKnowledge(agents []Agent, bucket []int) []Share {
	src, ok := firstInformed(agents, bucket)
	if !ok {
		return nil
	}
	signal := agents[src].position
	var shares []Share
	for _, i := range bucket {
		a := &agents[i]
		if i == src || a.knowsFood || a.carrying {
			continue
		}
		a.learnFood(signal)
		shares = append(shares, Share{From: src, To: i, Food: signal})
	}
	return shares
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X != ps[j].X {
			return ps[i].X < ps[j].X
		}
		return ps[i].Y < ps[j].Y
	})
}
