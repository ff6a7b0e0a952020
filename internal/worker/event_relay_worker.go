package worker

import (
	"github.com/spec-kit/employee-service/internal/events"
)

// StartEventRelay registers the Redis relay on the dispatcher.
func StartEventRelay(dispatcher events.Dispatcher, relay *events.RedisRelay) {
	if dispatcher == nil || relay == nil {
		return
	}
	relay.Register(dispatcher)
}
