package utils

// Event carries a named notification through the process. The websocket
// gateway forwards events to connected clients as-is.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type EventBus struct {
	events chan Event
}

func NewEventBus() *EventBus {
	return &EventBus{
		events: make(chan Event, 100),
	}
}

// Publish never blocks. If the buffer is full the event is dropped;
// stale-view events are advisory and clients re-fetch on demand anyway.
func (eb *EventBus) Publish(event string, data interface{}) {
	e := Event{Event: event, Data: data}
	select {
	case eb.events <- e:
	default:
	}
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	return eb.events
}
