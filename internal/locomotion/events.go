package locomotion

type EventType int

const (
	EventDeparted        EventType = iota // AI agent picked a new target
	EventArrived                          // AI agent reached its target
	EventFootfall                         // a heel strike; Side is 0 left, 1 right
	EventActivityChanged                  // standing agent started or stopped working
)

type Event struct {
	Type    EventType
	AgentID string
	X, Z    float64
	Time    float64
	Side    int
	Label   string // station label for EventActivityChanged, empty when idle
}

type EventHandler func(Event)

// EventBus delivers events to handlers. Emit delivers at once; Post queues
// an event until the next Flush.
type EventBus struct {
	handlers map[EventType][]EventHandler
	queue    []Event
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}

func (eb *EventBus) Post(e Event) {
	eb.queue = append(eb.queue, e)
}

// Flush delivers queued events in posting order, including any posted by
// the handlers it runs.
func (eb *EventBus) Flush() {
	for len(eb.queue) > 0 {
		q := eb.queue
		eb.queue = nil
		for _, e := range q {
			eb.Emit(e)
		}
		if eb.queue == nil {
			eb.queue = q[:0]
		}
	}
}
