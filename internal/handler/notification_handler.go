package handler

import (
	"time"

	"pdf-chat-be/internal/pkg/logger"
	"pdf-chat-be/internal/service"
	internalWS "pdf-chat-be/internal/websocket"
	"pdf-chat-be/pkg/events"
	pktNats "pdf-chat-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service   *service.NotificationService
	publisher *pktNats.Publisher
	hub       *internalWS.Hub
	logger    logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, pub *pktNats.Publisher, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		publisher: pub,
		hub:       hub,
		logger:    log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	// Clients may pass a stable id to survive reconnects; otherwise one is minted.
	clientID := uuid.New()
	if idStr := c.Query("client_id"); idStr != "" {
		parsed, err := uuid.Parse(idStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client ID format"})
		}
		clientID = parsed
	}

	// Upgrade via Fiber WebSocket Middleware
	// We handle the upgrade here using the helper which automatically hijacks the connection
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"client_id": clientID})
			internalWS.ServeWs(h.hub, conn, clientID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"client_id": clientID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// DebugTriggerEvent simulates an event to test the flow.
func (h *NotificationHandler) DebugTriggerEvent(c *fiber.Ctx) error {
	type Request struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Type == "" {
		req.Type = "TEST_EVENT"
	}
	if req.Payload == nil {
		req.Payload = make(map[string]interface{})
	}

	evt := events.BaseEvent{
		Type:       req.Type,
		Data:       req.Payload,
		OccurredAt: time.Now(),
	}

	// Fall back to the in-process pipeline when NATS is not configured.
	if h.publisher == nil {
		if err := h.service.Publish(c.UserContext(), evt); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "Event Delivered Locally", "event": evt})
	}

	if err := h.publisher.Publish(c.UserContext(), evt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "Event Published", "event": evt})
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	debug := router.Group("/debug")
	debug.Post("/trigger-notification", h.DebugTriggerEvent)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}
