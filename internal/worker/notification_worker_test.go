package worker

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

type countingPublisher struct {
	channels []string
}

func (p *countingPublisher) Publish(ctx context.Context, channel string, _ interface{}) *redis.IntCmd {
	p.channels = append(p.channels, channel)
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func TestStartNotificationWorker_LogsTicketEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	StartNotificationWorker(service.NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated, TicketID: "t1"}))
	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCommentAdded, TicketID: "t1"}))

	received := logs.FilterMessage("ticket event received")
	require.Equal(t, 2, received.Len())
	assert.Equal(t, 1, received.FilterField(zap.String("event_type", string(events.EventTicketCreated))).Len())
	assert.Equal(t, 1, received.FilterField(zap.String("event_type", string(events.EventTicketCommentAdded))).Len())
	StartNotificationWorker(nil)
}

func TestStartEventForwarder(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	publisher := &countingPublisher{}

	StartEventForwarder(dispatcher, publisher, "helpdesk:ticket-events", zap.NewNop())
	StartEventForwarder(dispatcher, nil, "ignored", zap.NewNop())

	for _, eventType := range events.AllEventTypes {
		require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: eventType, TicketID: "t1"}))
	}
	assert.Len(t, publisher.channels, len(events.AllEventTypes))
	assert.Equal(t, "helpdesk:ticket-events", publisher.channels[0])
}
