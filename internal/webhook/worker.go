package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/omran-mahr/Aspiro-AI/internal/ws"
)

const (
	defaultQueueSize   = 256
	defaultMaxAttempts = 5
)

// Dispatcher queues attendance events and delivers them in the background,
// retrying failed deliveries with exponential backoff.
type Dispatcher struct {
	sender      *Sender
	logger      *slog.Logger
	queue       chan job
	maxAttempts int
	baseDelay   time.Duration
}

func NewDispatcher(sender *Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		logger:      logger.With("component", "webhook"),
		queue:       make(chan job, defaultQueueSize),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   time.Second,
	}
}

// Broadcast enqueues an event without blocking. Events are dropped when the
// queue is full.
func (d *Dispatcher) Broadcast(eventType ws.EventType, data interface{}) {
	event := Event{
		ID:        uuid.New().String(),
		Type:      string(eventType),
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Error("failed to marshal webhook event", "type", eventType, "error", err)
		return
	}

	select {
	case d.queue <- job{id: event.ID, eventType: event.Type, payload: payload}:
	default:
		d.logger.Warn("webhook queue full, dropping event", "type", eventType, "delivery_id", event.ID)
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("webhook worker started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("webhook worker stopped")
			return
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	for {
		err := d.sender.Send(ctx, j.id, j.eventType, j.payload)
		if err == nil {
			d.logger.Debug("webhook delivered", "delivery_id", j.id, "type", j.eventType)
			return
		}

		j.attempts++
		if j.attempts >= d.maxAttempts {
			d.logger.Warn("webhook delivery failed",
				"delivery_id", j.id,
				"type", j.eventType,
				"attempts", j.attempts,
				"error", err,
			)
			return
		}

		delay := d.baseDelay * time.Duration(1<<(j.attempts-1))
		d.logger.Info("webhook delivery scheduled for retry",
			"delivery_id", j.id,
			"attempts", j.attempts,
			"next_retry", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
