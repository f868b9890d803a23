package dashboard

import (
	"sync"

	"topowatch/internal/domain"
	"topowatch/internal/layout"
)

// EventType defines the type of event
type EventType string

const (
	EventFrames  EventType = "frames"
	EventApplied EventType = "snapshot_applied"
	EventDrag    EventType = "drag"
)

// Event represents something renderers may want to react to
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// FrameSet is everything a renderer needs to draw one moment of the dashboard
type FrameSet struct {
	Seq      uint64         `json:"seq"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Grid     layout.Grid    `json:"grid"`
	Selected string         `json:"selected,omitempty"`
	Names    []string       `json:"names"`
	Frames   []domain.Frame `json:"frames"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Unsubscribe removes a subscriber
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
