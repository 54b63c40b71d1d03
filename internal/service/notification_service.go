package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pdf-chat-be/internal/constant"
	"pdf-chat-be/internal/model"
	"pdf-chat-be/internal/pkg/logger"
	"pdf-chat-be/pkg/events"
	pktNats "pdf-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notification model.Notification)
}

// NotificationService turns chat events into transient notifications.
// Nothing is stored: a notification the browser misses is simply gone,
// which is all the error-surfacing contract asks for.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("chat.events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to chat.events.>", nil)
}

// Publish lets the service double as a local event sink when NATS is
// unavailable: events are handled in-process instead of crossing the bus.
func (s *NotificationService) Publish(ctx context.Context, event events.Event) error {
	return s.handleEvent(ctx, event)
}

func (s *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	// The NATS subject carries a "chat.events." prefix; local events use
	// the bare code.
	typeCode := strings.TrimPrefix(event.EventType(), "chat.events.")

	tpl, ok := constant.NotificationTemplates[typeCode]
	if !ok {
		s.logger.Info("NotificationService", fmt.Sprintf("No notification configured for event '%s'", typeCode), nil)
		return nil
	}

	notif := s.buildNotification(typeCode, tpl.Title, tpl.Template, tpl.Level, event)

	if s.delivery != nil {
		s.delivery.Broadcast(notif)
	}
	return nil
}

func (s *NotificationService) buildNotification(typeCode, title, template, level string, event events.Event) model.Notification {
	// Simple Template Engine
	msg := template
	payload := event.Payload()

	for k, v := range payload {
		placeholder := fmt.Sprintf("{%s}", k)
		valStr := fmt.Sprintf("%v", v)
		msg = strings.ReplaceAll(msg, placeholder, valStr)
	}

	var sessionId *uuid.UUID
	if sidStr, ok := payload["session_id"].(string); ok {
		if sid, err := uuid.Parse(sidStr); err == nil {
			sessionId = &sid
		}
	}

	metaMap := make(map[string]interface{})
	for k, v := range payload {
		metaMap[k] = v
	}

	return model.Notification{
		ID:        uuid.New(),
		TypeCode:  typeCode,
		Level:     level,
		Title:     title,
		Message:   msg,
		SessionId: sessionId,
		Metadata:  metaMap,
		CreatedAt: time.Now(),
	}
}
