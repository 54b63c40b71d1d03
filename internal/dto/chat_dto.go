package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	HasDocument  bool      `json:"has_document"`
	DocumentName string    `json:"document_name,omitempty"`
	MessageCount int       `json:"message_count"`
	State        string    `json:"state"` // "idle" | "uploading" | "waiting_for_answer"
}

type SessionListResponse struct {
	Sessions        []SessionSummaryResponse `json:"sessions"`
	ActiveSessionId *uuid.UUID               `json:"active_session_id,omitempty"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type GetTranscriptResponse struct {
	Id                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Messages          []MessageResponse `json:"messages"`
	ProcessedDocument json.RawMessage   `json:"processed_document,omitempty"`
	DocumentName      string            `json:"document_name,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type SendMessageResponse struct {
	SessionId    uuid.UUID        `json:"session_id"`
	SessionTitle string           `json:"title"`
	Sent         *MessageResponse `json:"sent"`
	Reply        *MessageResponse `json:"reply"`
}

type UploadDocumentResponse struct {
	SessionId         uuid.UUID        `json:"session_id"`
	SessionTitle      string           `json:"title"`
	DocumentName      string           `json:"document_name"`
	ProcessedDocument json.RawMessage  `json:"processed_document"`
	SystemMessage     *MessageResponse `json:"system_message"`
}

type SetActiveSessionRequest struct {
	SessionId *uuid.UUID `json:"session_id"` // nil clears the active session
}

type ActiveSessionResponse struct {
	ActiveSessionId *uuid.UUID `json:"active_session_id,omitempty"`
}
