package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestPublisherSubject(t *testing.T) {
	p := NewPublisher(nil, "hire.recruitment.", "api", zerolog.Nop())
	require.Equal(t, "hire.recruitment.applications.assigned", p.Subject(ApplicationsAssigned))

	bare := NewPublisher(nil, "", "api", zerolog.Nop())
	require.Equal(t, ApplicationScored, bare.Subject(ApplicationScored))
}

func TestPublisherEncode(t *testing.T) {
	p := NewPublisher(nil, "hire", "api-1", zerolog.Nop())
	fixed := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	payload, err := p.Encode(ApplicationScored, map[string]int{"applicationId": 7})
	require.NoError(t, err)

	var envelope struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		Source     string         `json:"source"`
		OccurredAt time.Time      `json:"occurredAt"`
		Data       map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &envelope))
	require.NotEmpty(t, envelope.ID)
	require.Equal(t, ApplicationScored, envelope.Type)
	require.Equal(t, "api-1", envelope.Source)
	require.True(t, fixed.Equal(envelope.OccurredAt))
	require.Equal(t, 7, envelope.Data["applicationId"])
}

func TestPublisherWithoutConnectionDropsEvents(t *testing.T) {
	p := NewPublisher(nil, "hire", "api", zerolog.Nop())
	require.NoError(t, p.Publish(context.Background(), ApplicationsAssigned, nil))

	var nilPublisher *Publisher
	require.NoError(t, nilPublisher.Publish(context.Background(), ApplicationsAssigned, nil))
}
