package ports

import "antforage/internal/domain/world"

type TickMetrics interface {
	RecordTick(report world.TickReport)
	RecordFoodAdded()
	RecordFoodRejected()
}
