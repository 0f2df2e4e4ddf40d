package services

import (
	"go.uber.org/zap"
)

// Domain event routing keys.
const (
	EventUserCreated      = "user.created"
	EventUserDeleted      = "user.deleted"
	EventMicropostCreated = "micropost.created"
	EventMicropostDeleted = "micropost.deleted"
)

// EventPublisher sends domain events to a broker. A nil publisher disables
// publishing.
type EventPublisher interface {
	PublishEvent(eventType string, data map[string]interface{}) error
}

// publishEvent never fails the calling operation; the record is already
// committed when events go out.
func publishEvent(publisher EventPublisher, logger *zap.Logger, eventType string, data map[string]interface{}) {
	if publisher == nil {
		logger.Debug("Event publishing disabled", zap.String("event", eventType))
		return
	}
	if err := publisher.PublishEvent(eventType, data); err != nil {
		logger.Warn("Failed to publish event", zap.String("event", eventType), zap.Error(err))
	}
}
