package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
)

func TestNotificationService_Build(t *testing.T) {
	svc := NewNotificationService(nil, nil, config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/helpdesk",
	})

	created := svc.Build(events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "t1",
		Payload:  events.TicketCreatedPayload{Priority: domain.TicketPriorityHigh, Subject: "Printer on fire"},
	})
	require.Len(t, created, 2)
	assert.Equal(t, ChannelEmail, created[0].Channel)
	assert.Equal(t, ChannelWebhook, created[1].Channel)
	assert.Equal(t, "New High priority ticket: Printer on fire", created[0].Subject)

	moved := svc.Build(events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "t1",
		Payload:  events.TicketStatusChangedPayload{OldStatus: domain.TicketStatusOpen, NewStatus: domain.TicketStatusInProgress},
	})
	require.Len(t, moved, 2)
	assert.Equal(t, "Ticket t1 moved from Open to In Progress", moved[0].Subject)

	assert.Empty(t, svc.Build(events.Event{Type: events.EventTicketVoted, TicketID: "t1"}))
}

func TestNotificationService_SkipsUnconfiguredChannels(t *testing.T) {
	svc := NewNotificationService(nil, nil, config.NotificationConfig{EmailFrom: "noreply@example.com"})

	assert.Empty(t, svc.Build(events.Event{Type: events.EventTicketAssigned, TicketID: "t1"}))

	comment := svc.Build(events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: "t1",
		Payload:  events.TicketCommentAddedPayload{ContentPreview: "rebooted"},
	})
	require.Len(t, comment, 1)
	assert.Equal(t, "noreply@example.com", comment[0].Target)
	assert.Equal(t, "New comment on ticket t1: rebooted", comment[0].Subject)
}
