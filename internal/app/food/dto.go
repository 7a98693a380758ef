package food

import "antforage/internal/domain/world"

type Request struct {
	X int
	Y int
	// Units defaults to the use case's DefaultUnits when nil. An explicit
	// zero reaches the world and is rejected there.
	Units *int
}

type Response struct {
	Position world.Position `json:"position"`
	Units    uint           `json:"units"`
	Tick     uint64         `json:"tick"`
}
