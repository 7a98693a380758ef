package memory

import (
	"sync"

	"antforage/internal/app/ports"
)

type Store struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	events []ports.TickEvent
}

func NewStore() *Store {
	return &Store{}
}

func cloneEvent(e ports.TickEvent) ports.TickEvent {
	if e.Payload != nil {
		payload := make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			payload[k] = v
		}
		e.Payload = payload
	}
	return e
}
