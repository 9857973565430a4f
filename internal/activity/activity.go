// Package activity publishes the credential activity log. Publishing is best-effort:
// a failed publish is logged and never fails the originating operation.
package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"credvault/internal/platform/kafka/producer"
	id "credvault/pkg/domain"
)

// Type names an activity.
type Type string

const (
	TypeRequested Type = "credential_requested"
	TypeIssued    Type = "credential_issued"
	TypeRevoked   Type = "credential_revoked"
	TypeShared    Type = "credential_shared"
	TypeVerified  Type = "credential_verified"
)

// Status is the outcome recorded with an activity.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Event is one activity log entry.
type Event struct {
	ID           string            `json:"id"`
	Type         Type              `json:"activityType"`
	ActorDID     id.DID            `json:"userDid"`
	CredentialID id.CredentialID   `json:"credentialId,omitempty"`
	RelatedDID   id.DID            `json:"relatedUserDid,omitempty"`
	Status       Status            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// New builds a successful event with a fresh id.
func New(t Type, actor id.DID, credentialID id.CredentialID, at time.Time) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         t,
		ActorDID:     actor,
		CredentialID: credentialID,
		Status:       StatusSuccess,
		Timestamp:    at,
	}
}

// Publisher records activity events.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, e Event) {
	p.logger.InfoContext(ctx, "activity",
		"activity_type", e.Type,
		"actor_did", e.ActorDID,
		"credential_id", e.CredentialID,
		"related_did", e.RelatedDID,
		"status", e.Status,
	)
}

// AsyncProducer is the non-blocking side of the Kafka producer.
type AsyncProducer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaPublisher emits events to a topic keyed by credential id so a credential's
// history stays ordered within one partition.
type KafkaPublisher struct {
	producer AsyncProducer
	topic    string
	logger   *slog.Logger
}

func NewKafkaPublisher(p AsyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode activity event", "activity_type", e.Type, "error", err)
		return
	}
	key := e.CredentialID.String()
	if key == "" {
		key = e.ActorDID.String()
	}
	err = p.producer.ProduceAsync(&producer.Message{
		Topic:   p.topic,
		Key:     []byte(key),
		Value:   value,
		Headers: map[string]string{"activity_type": string(e.Type)},
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to publish activity event",
			"activity_type", e.Type,
			"credential_id", e.CredentialID,
			"error", err,
		)
	}
}

// Recorder keeps events in memory. Used in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
