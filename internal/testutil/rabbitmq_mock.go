package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

// PublishedEvent is an event captured by MockPublisher
type PublishedEvent struct {
	RoutingKey string
	EventData  interface{}
	RawJSON    []byte
}

// MockPublisher records events in memory instead of sending them to RabbitMQ.
// It is safe for concurrent use by handlers under httptest.
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish marshals the event like the real publisher and stores it
func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{
		RoutingKey: routingKey,
		EventData:  eventData,
		RawJSON:    raw,
	})
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// EventsByKey returns a copy of the events published under routingKey
func (m *MockPublisher) EventsByKey(routingKey string) []PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []PublishedEvent
	for _, event := range m.events {
		if event.RoutingKey == routingKey {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// CountByKey returns the number of events published under routingKey
func (m *MockPublisher) CountByKey(routingKey string) int {
	return len(m.EventsByKey(routingKey))
}

// Reset clears all recorded events
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// AssertEventCount asserts the exact number of events with the given routing key
func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()

	if count := m.CountByKey(routingKey); count != expected {
		t.Errorf("Expected %d events with routing key '%s', got %d", expected, routingKey, count)
	}
}

// DecodeLast unmarshals the newest event with routingKey into target
func (m *MockPublisher) DecodeLast(t *testing.T, routingKey string, target interface{}) {
	t.Helper()

	events := m.EventsByKey(routingKey)
	if len(events) == 0 {
		t.Fatalf("No events published with routing key '%s'", routingKey)
	}
	if err := json.Unmarshal(events[len(events)-1].RawJSON, target); err != nil {
		t.Fatalf("Failed to decode event %s: %v", routingKey, err)
	}
}
