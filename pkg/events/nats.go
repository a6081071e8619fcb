// Package events publishes recruitment domain events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Event names published by the service.
const (
	ApplicationsAssigned = "applications.assigned"
	ApplicationScored    = "applications.scored"
)

// Envelope is the JSON document written to the wire.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Publisher sends events to subjects derived from a base subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
	source  string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewPublisher builds a NATS publisher. A nil connection yields a publisher that drops events.
func NewPublisher(conn *nats.Conn, subject, source string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		subject: strings.Trim(subject, "."),
		source:  source,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
		now:     time.Now,
	}
}

// Subject returns the fully qualified subject for an event type.
func (p *Publisher) Subject(eventType string) string {
	if p.subject == "" {
		return eventType
	}
	return p.subject + "." + eventType
}

// Encode builds the wire payload for an event.
func (p *Publisher) Encode(eventType string, data interface{}) ([]byte, error) {
	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     p.source,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return payload, nil
}

// Publish sends an event. It is a no-op without a connection.
func (p *Publisher) Publish(ctx context.Context, eventType string, data interface{}) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := p.Encode(eventType, data)
	if err != nil {
		return err
	}

	subject := p.Subject(eventType)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Msg("event published")
	return nil
}
