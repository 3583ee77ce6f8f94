package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NotificationPublisher publishes workflow events to NATS for consumption by
// the platform notifications service.
//
// Subject convention: notifications.slf.<event_type>
// Event types: report_submitted, report_approval_required, report_approved,
//              report_rejected, report_sent_to_government
//
// All publish operations are non-fatal — errors are logged but never
// propagated, so notification failures never interrupt (or roll back) an
// already-committed workflow transition.
type NotificationPublisher struct {
	nc  *nats.Conn
	log zerolog.Logger
}

// NotificationEvent is the JSON schema published to NATS.
type NotificationEvent struct {
	EventType    string         `json:"event_type"`
	ActorID      string         `json:"actor_id"`
	Recipients   []string       `json:"recipients"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	ActionURL    string         `json:"action_url,omitempty"`
	Priority     string         `json:"priority,omitempty"`
	Payload      map[string]any `json:"payload,omitempty"`
}

// NewNotificationPublisher creates a publisher backed by the given NATS
// connection. A nil connection disables publishing.
func NewNotificationPublisher(nc *nats.Conn, log zerolog.Logger) *NotificationPublisher {
	return &NotificationPublisher{nc: nc, log: log}
}

// PublishReportEvent publishes an SLF report workflow event.
// Subject: notifications.slf.<eventType>
func (p *NotificationPublisher) PublishReportEvent(ctx context.Context, eventType, reportID, actorID string, recipients []string, title, message string, payload map[string]any) {
	if p.nc == nil {
		return
	}
	if len(recipients) == 0 {
		return
	}

	event := &NotificationEvent{
		EventType:    eventType,
		ActorID:      actorID,
		Recipients:   recipients,
		Title:        title,
		Message:      message,
		ResourceType: "report",
		ResourceID:   reportID,
		ActionURL:    fmt.Sprintf("/reports/%s", reportID),
		Priority:     "normal",
		Payload:      payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Str("event_type", eventType).Msg("notification: failed to marshal event")
		return
	}

	subject := fmt.Sprintf("notifications.slf.%s", eventType)
	if err := p.nc.Publish(subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Str("report_id", reportID).
			Msg("notification: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", subject).
		Str("report_id", reportID).
		Int("recipients", len(recipients)).
		Msg("notification: event published")
}
