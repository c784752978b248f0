// Package audit records registration activity for compliance review. Events
// are drained by a background worker and published to Kafka; publishing is
// best-effort and never fails the request that produced the event.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Outcome values for audit events.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Event captures one registration attempt and its terminal status.
type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	RequestID     string    `json:"requestId,omitempty"`
	AgentID       string    `json:"agentId"`
	SubscriberID  string    `json:"subscriberId"`
	NetworkID     string    `json:"networkId"`
	Outcome       string    `json:"outcome"`
	ResponseCode  string    `json:"responseCode,omitempty"`
	RicaReference string    `json:"ricaReference,omitempty"`
	Reason        string    `json:"reason,omitempty"`
}

// Sink publishes one serialized event. The Kafka publisher satisfies this.
type Sink interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Recorder buffers events from request handling and drains them in the
// background so slow brokers never block registrations.
type Recorder struct {
	sink   Sink
	inbox  chan Event
	logger *slog.Logger
}

// NewRecorder creates a Recorder with the given buffer size.
func NewRecorder(sink Sink, buffer int, logger *slog.Logger) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{
		sink:   sink,
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Record enqueues an event without blocking. When the buffer is full the
// event is dropped and counted in logs; registration latency wins over audit
// completeness.
func (r *Recorder) Record(event Event) {
	if r == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.Warn("audit inbox full, dropping event",
			"agent_id", event.AgentID,
			"outcome", event.Outcome,
		)
	}
}

// Run drains the inbox until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-r.inbox:
			r.publish(ctx, event)
		}
	}
}

func (r *Recorder) publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("failed to marshal audit event", "error", err.Error())
		return
	}
	if err := r.sink.Publish(ctx, event.AgentID, payload); err != nil {
		r.logger.Warn("failed to publish audit event",
			"agent_id", event.AgentID,
			"error", err.Error(),
		)
	}
}
