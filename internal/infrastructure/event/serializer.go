package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/fitdesk/backend/internal/domain/shared"
)

// EventSerializer converts domain events to and from their JSON outbox
// payloads. Deserialization needs a prototype per event type name, because
// the outbox row only carries the name as a string.
type EventSerializer struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{types: make(map[string]reflect.Type)}
}

// Register maps an event type name to the concrete type of the prototype.
// The name must match what EventType() returns on the event.
func (s *EventSerializer) Register(eventType string, prototype shared.DomainEvent) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[eventType] = t
}

// IsRegistered reports whether Deserialize can handle the given type name.
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.types[eventType]
	return ok
}

func (s *EventSerializer) Serialize(evt shared.DomainEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// Deserialize rebuilds a registered event from its JSON payload.
func (s *EventSerializer) Deserialize(eventType string, payload []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.types[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(payload, ptr); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", eventType, err)
	}

	evt, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("type registered for %s does not implement DomainEvent", eventType)
	}
	return evt, nil
}
