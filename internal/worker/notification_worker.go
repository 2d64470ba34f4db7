package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartEventForwarder subscribes the Redis forwarder to every ticket event. A nil publisher
// leaves events in-process.
func StartEventForwarder(dispatcher events.Dispatcher, publisher events.Publisher, channel string, logger *zap.Logger) {
	if dispatcher == nil || publisher == nil {
		return
	}
	events.NewRedisForwarder(publisher, channel).Register(dispatcher)
	logger.Info("forwarding ticket events to redis", zap.String("channel", channel))
}
