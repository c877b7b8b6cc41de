package queue

import (
	"encoding/json"
	"log"

	"github.com/chatterly/chat_service/internal/dto"
)

// EventLogger consumes the notification topic and logs every fan-out so
// delivery stays observable even though publishes are fire-and-forget.
type EventLogger struct{}

func NewEventLogger() *EventLogger {
	return &EventLogger{}
}

func (l *EventLogger) HandleMessage(key, value []byte) error {
	var ev dto.Event
	if err := json.Unmarshal(value, &ev); err != nil {
		log.Printf("event log: undecodable event on %q: %v", string(key), err)
		return nil
	}
	log.Printf("event log: %s %s", ev.Channel, ev.Event)
	return nil
}
