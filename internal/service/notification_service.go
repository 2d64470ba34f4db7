package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

// NotificationChannel names a delivery route for ticket notifications.
type NotificationChannel string

const (
	ChannelEmail   NotificationChannel = "email"
	ChannelWebhook NotificationChannel = "webhook"
)

// Notification is a rendered message about a ticket event.
type Notification struct {
	Channel   NotificationChannel
	Target    string
	EventType events.EventType
	TicketID  string
	Subject   string
}

// notificationRoutes lists which channels each event type is delivered on. Votes are not notified.
var notificationRoutes = map[events.EventType][]NotificationChannel{
	events.EventTicketCreated:       {ChannelEmail, ChannelWebhook},
	events.EventTicketStatusChanged: {ChannelEmail, ChannelWebhook},
	events.EventTicketAssigned:      {ChannelWebhook},
	events.EventTicketCommentAdded:  {ChannelEmail},
}

// NotificationService turns ticket events into email and webhook notifications. Delivery is
// stubbed: notifications are logged against the configured targets.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	targets    map[NotificationChannel]string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		targets: map[NotificationChannel]string{
			ChannelEmail:   strings.TrimSpace(cfg.EmailFrom),
			ChannelWebhook: strings.TrimSpace(cfg.WebhookURL),
		},
	}
}

// RegisterHandlers subscribes to every routed event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType := range notificationRoutes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

// Build renders the notifications for an event, skipping channels with no configured target.
func (n *NotificationService) Build(event events.Event) []Notification {
	subject := notificationSubject(event)
	var out []Notification
	for _, channel := range notificationRoutes[event.Type] {
		target := n.targets[channel]
		if target == "" {
			continue
		}
		out = append(out, Notification{
			Channel:   channel,
			Target:    target,
			EventType: event.Type,
			TicketID:  event.TicketID,
			Subject:   subject,
		})
	}
	return out
}

func (n *NotificationService) handle(_ context.Context, event events.Event) error {
	n.logger.Info("ticket event received",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.Actor.UserID))
	for _, notification := range n.Build(event) {
		n.logger.Debug("notification queued",
			zap.String("channel", string(notification.Channel)),
			zap.String("target", notification.Target),
			zap.String("ticket_id", notification.TicketID),
			zap.String("subject", notification.Subject))
	}
	return nil
}

func notificationSubject(event events.Event) string {
	switch p := event.Payload.(type) {
	case events.TicketCreatedPayload:
		return fmt.Sprintf("New %s priority ticket: %s", p.Priority, p.Subject)
	case events.TicketStatusChangedPayload:
		return fmt.Sprintf("Ticket %s moved from %s to %s", event.TicketID, p.OldStatus, p.NewStatus)
	case events.TicketAssignedPayload:
		return fmt.Sprintf("Ticket %s assigned to %s", event.TicketID, p.AssigneeID)
	case events.TicketCommentAddedPayload:
		return fmt.Sprintf("New comment on ticket %s: %s", event.TicketID, p.ContentPreview)
	default:
		return fmt.Sprintf("Ticket %s: %s", event.TicketID, event.Type)
	}
}
