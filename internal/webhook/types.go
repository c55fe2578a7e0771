package webhook

import (
	"time"
)

// Event is the JSON body POSTed to the webhook URL
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type job struct {
	id        string
	eventType string
	payload   []byte
	attempts  int
}
