// Package audit emits append-only audit events for record mutations and
// review decisions. Publishing is best-effort: a failed emit is logged and
// never fails the request that caused it.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lineage/internal/platform/kafka"
	"lineage/internal/platform/middleware"
	"lineage/pkg/requestcontext"
)

// Actions recorded by this service.
const (
	ActionEventCreated      = "event_created"
	ActionEventUpdated      = "event_updated"
	ActionConflictResolved  = "conflict_resolved"
	ActionDuplicateReviewed = "duplicate_reviewed"
)

// Event is one audit record.
type Event struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	Entity      string         `json:"entity"`
	EntityID    int64          `json:"entity_id"`
	ActorUserID *int64         `json:"actor_user_id,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	ClientIP    string         `json:"client_ip,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// Publisher delivers audit events to the audit stream.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Emitter stamps and publishes audit events, absorbing publish failures.
type Emitter struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewEmitter creates an emitter. A nil publisher disables emission.
func NewEmitter(publisher Publisher, logger *slog.Logger) *Emitter {
	return &Emitter{publisher: publisher, logger: logger}
}

// Emit fills in id, request id and timestamp, then publishes.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil || e.publisher == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.RequestID = middleware.GetRequestID(ctx)
	ev.ClientIP = requestcontext.ClientIP(ctx)
	ev.UserAgent = requestcontext.UserAgent(ctx)
	ev.OccurredAt = time.Now().UTC()
	if uid, ok := middleware.GetUserID(ctx); ok {
		ev.ActorUserID = &uid
	}
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.logger.ErrorContext(ctx, "audit publish failed",
			"action", ev.Action, "entity", ev.Entity, "entity_id", ev.EntityID, "error", err)
	}
}

// KafkaPublisher publishes audit events to the audit topic.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher wraps a producer. Returns nil when the producer is nil
// so the emitter stays disabled without Kafka configured.
func NewKafkaPublisher(producer *kafka.Producer) Publisher {
	if producer == nil {
		return nil
	}
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.producer.Produce(ctx, ev.Entity, payload)
}
