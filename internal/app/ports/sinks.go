package ports

import (
	"context"

	"antforage/internal/domain/world"
)

// TickSink receives every completed tick from the simulation goroutine.
// Implementations must not block for long; the next tick waits on them.
type TickSink interface {
	OnTick(ctx context.Context, report world.TickReport, snapshot world.Snapshot) error
}
