// Package event is an in-process, synchronous event dispatcher. Services
// fire domain events after their work is durable; listeners must be cheap.
package event

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers handler for event.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire calls every listener of event in registration order. A panicking
// listener is logged and does not stop the others.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := append([]Handler(nil), handlers[event]...)
	mu.RUnlock()

	for _, h := range hs {
		call(event, h, payload)
	}
}

func call(event string, h Handler, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("event: listener panicked", "event", event, "error", fmt.Sprint(rec))
		}
	}()
	h(payload)
}

// Flush removes all listeners.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
