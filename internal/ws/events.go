package ws

import (
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	EventFaceRegistered       EventType = "face.registered"
	EventAttendanceRecognized EventType = "attendance.recognized"
)

var knownEvents = map[EventType]struct{}{
	EventFaceRegistered:       {},
	EventAttendanceRecognized: {},
}

// Event is the envelope written to feed subscribers and webhook receivers
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventFilter selects which event types a subscriber receives. A nil filter
// accepts everything.
type EventFilter map[EventType]struct{}

// ParseEventFilter reads a comma-separated list such as
// "attendance.recognized,face.registered". An empty list yields a nil filter.
func ParseEventFilter(list string) (EventFilter, error) {
	var filter EventFilter
	for _, raw := range strings.Split(list, ",") {
		name := EventType(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, ok := knownEvents[name]; !ok {
			return nil, fmt.Errorf("unknown event type %q", name)
		}
		if filter == nil {
			filter = make(EventFilter)
		}
		filter[name] = struct{}{}
	}
	return filter, nil
}

func (f EventFilter) Accepts(t EventType) bool {
	if f == nil {
		return true
	}
	_, ok := f[t]
	return ok
}
