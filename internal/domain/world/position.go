package world

import "strconv"

// Position is an integer grid coordinate. It is a comparable value and is
// used directly as a map key.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rand is the random source consumed by wandering agents.
type Rand interface {
	Intn(n int) int
}

// Key returns the canonical "x,y" encoding of p.
func (p Position) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func (p Position) String() string { return "(" + p.Key() + ")" }

func (p Position) PlusDelta(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// StepToward returns the neighbouring cell one step closer to target.
// Shallow angles (|dy/dx| < 0.5) move horizontally, steep ones (> 2)
// vertically, everything in between diagonally.
func (p Position) StepToward(target Position) Position {
	dx := target.X - p.X
	dy := target.Y - p.Y
	switch {
	case dx == 0 && dy == 0:
		return p
	case dx == 0:
		return p.PlusDelta(0, sign(dy))
	case dy == 0:
		return p.PlusDelta(sign(dx), 0)
	}
	ratio := abs(float64(dy) / float64(dx))
	switch {
	case ratio < 0.5:
		return p.PlusDelta(sign(dx), 0)
	case ratio > 2:
		return p.PlusDelta(0, sign(dy))
	default:
		return p.PlusDelta(sign(dx), sign(dy))
	}
}

// RandomStep moves each axis independently by -1, 0 or 1, x drawn first.
func (p Position) RandomStep(rng Rand) Position {
	dx := rng.Intn(3) - 1
	dy := rng.Intn(3) - 1
	return p.PlusDelta(dx, dy)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
