package service

import (
	"context"
	"testing"
	"time"

	"pdf-chat-be/internal/constant"
	"pdf-chat-be/internal/model"
	"pdf-chat-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureDelivery struct {
	notifications []model.Notification
}

func (c *captureDelivery) Broadcast(notification model.Notification) {
	c.notifications = append(c.notifications, notification)
}

func TestIngestionFailureBecomesErrorNotification(t *testing.T) {
	delivery := &captureDelivery{}
	svc := NewNotificationService(nil, delivery, nopLogger{})

	sessionId := uuid.New()
	err := svc.Publish(context.Background(), events.BaseEvent{
		Type: constant.EventIngestionFailed,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"file_name":  "report.pdf",
			"reason":     "document processing failed: status 502",
		},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, delivery.notifications, 1)
	notif := delivery.notifications[0]
	assert.Equal(t, constant.EventIngestionFailed, notif.TypeCode)
	assert.Equal(t, "error", notif.Level)
	assert.Contains(t, notif.Message, "report.pdf")
	require.NotNil(t, notif.SessionId)
	assert.Equal(t, sessionId, *notif.SessionId)
}

func TestEventWithSubjectPrefixIsRecognized(t *testing.T) {
	delivery := &captureDelivery{}
	svc := NewNotificationService(nil, delivery, nopLogger{})

	err := svc.Publish(context.Background(), events.BaseEvent{
		Type:       "chat.events." + constant.EventQueryFailed,
		Data:       map[string]interface{}{"reason": "rate limited"},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	require.Len(t, delivery.notifications, 1)
	assert.Equal(t, constant.EventQueryFailed, delivery.notifications[0].TypeCode)
	assert.Contains(t, delivery.notifications[0].Message, "rate limited")
}

func TestUnknownEventIsIgnored(t *testing.T) {
	delivery := &captureDelivery{}
	svc := NewNotificationService(nil, delivery, nopLogger{})

	err := svc.Publish(context.Background(), events.BaseEvent{
		Type:       "SOMETHING_ELSE",
		Data:       map[string]interface{}{},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, delivery.notifications)
}
