package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a transient user-visible event pushed over the
// websocket hub. Nothing here is persisted; a notification the browser
// misses is gone.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	TypeCode  string                 `json:"type_code"`
	Level     string                 `json:"level"` // "info" | "error"
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	SessionId *uuid.UUID             `json:"session_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
